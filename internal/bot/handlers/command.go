package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/services"
)

// CommandHandler handles bot commands
type CommandHandler struct {
	api  Sender
	deps Dependencies
	now  func() time.Time
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api Sender, deps Dependencies) *CommandHandler {
	return &CommandHandler{
		api:  api,
		deps: deps,
		now:  time.Now,
	}
}

// HandleControl processes the commands that are served even while a
// profile dialogue is open
func (h *CommandHandler) HandleControl(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	logger.WithContext(ctx).Info("Handling control command", "command", message.Command(), "user_id", userID)

	switch strings.ToLower(message.Command()) {
	case "start":
		_, err := h.api.Send(menus.MainMenuMessage(chatID))
		return err
	case "help":
		return h.help(chatID)
	case "setprofile":
		if err := h.deps.Tracker.StartOnboarding(ctx, userID); err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		msg := tgbotapi.NewMessage(chatID, menus.OnboardingStart())
		msg.ReplyMarkup = keyboards.OnboardingMenu()
		_, err := h.api.Send(msg)
		return err
	case "cancel":
		return h.cancel(ctx, chatID, userID)
	case "reset":
		if err := h.deps.Tracker.Reset(ctx, userID); err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		return send(h.api, chatID, menus.ResetDoneText)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

// Handle processes a ledger or report command
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID
	args := message.CommandArguments()
	requestID := requestKey(message)
	logger.WithContext(ctx).Info("Handling command", "command", message.Command(), "user_id", userID)

	switch strings.ToLower(message.Command()) {
	case "water":
		ml, ok := parseWater(args)
		if !ok {
			return send(h.api, chatID, menus.WaterUsageText)
		}
		res, err := h.deps.Tracker.LogWater(ctx, userID, requestID, ml)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		return send(h.api, chatID, menus.WaterLogged(res))

	case "food":
		name, grams, ok := parseFood(args)
		if !ok {
			return send(h.api, chatID, menus.FoodUsageText)
		}
		res, err := h.deps.Tracker.LogFood(ctx, userID, requestID, name, grams)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		return send(h.api, chatID, menus.FoodLogged(res))

	case "workout":
		workoutType, minutes, ok := parseWorkout(args)
		if !ok {
			return send(h.api, chatID, menus.WorkoutUsageText)
		}
		res, err := h.deps.Tracker.LogWorkout(ctx, userID, requestID, workoutType, minutes)
		if err != nil {
			return replyError(ctx, h.api, chatID, err)
		}
		return send(h.api, chatID, menus.WorkoutLogged(res))

	case "history":
		days, ok := parseHistoryDays(args)
		if !ok {
			return send(h.api, chatID, menus.HistoryUsageText)
		}
		return h.history(ctx, chatID, userID, days)

	case "progress":
		return h.progress(ctx, chatID, userID)
	case "tips":
		return h.tips(ctx, chatID, userID)
	case "profile":
		return h.profile(ctx, chatID, userID)
	default:
		return h.handleUnknownCommand(chatID)
	}
}

func (h *CommandHandler) help(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, menus.HelpText)
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := h.api.Send(msg)
	return err
}

func (h *CommandHandler) cancel(ctx context.Context, chatID, userID int64) error {
	was, err := h.deps.Tracker.CancelOnboarding(ctx, userID)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	if !was {
		return send(h.api, chatID, menus.NothingToCancelText)
	}
	return send(h.api, chatID, menus.CancelledText)
}

func (h *CommandHandler) progress(ctx context.Context, chatID, userID int64) error {
	stats, err := h.deps.Tracker.TodayStats(ctx, userID)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, menus.Progress(stats))
	msg.ReplyMarkup = keyboards.BackMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CommandHandler) tips(ctx context.Context, chatID, userID int64) error {
	tips, err := h.deps.Tracker.Tips(ctx, userID)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, menus.Tips(h.now(), tips))
	msg.ReplyMarkup = keyboards.BackMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CommandHandler) profile(ctx context.Context, chatID, userID int64) error {
	view, err := h.deps.Tracker.Profile(ctx, userID)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	msg := tgbotapi.NewMessage(chatID, menus.Profile(view))
	msg.ReplyMarkup = keyboards.BackMenu()
	_, err = h.api.Send(msg)
	return err
}

func (h *CommandHandler) history(ctx context.Context, chatID, userID int64, days int) error {
	entries, err := h.deps.Tracker.History(ctx, userID, days)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}
	return send(h.api, chatID, menus.History(entries, historyWindow(days)))
}

// handleUnknownCommand handles unknown commands
func (h *CommandHandler) handleUnknownCommand(chatID int64) error {
	return send(h.api, chatID, menus.UnknownCommandText)
}

// parseWater reads "/water <ml>". A decimal comma is accepted.
func parseWater(args string) (float64, bool) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(fields[0], ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseFood reads "/food <name> [grams]". The name may span several words;
// a trailing integer is the portion weight.
func parseFood(args string) (string, int, bool) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", 0, false
	}

	grams := services.DefaultFoodGrams
	if len(fields) > 1 {
		if g, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			grams = g
			fields = fields[:len(fields)-1]
		}
	} else if _, err := strconv.Atoi(fields[0]); err == nil {
		return "", 0, false
	}
	return strings.Join(fields, " "), grams, true
}

// parseWorkout reads "/workout <type> <minutes>"
func parseWorkout(args string) (string, int, bool) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return "", 0, false
	}
	minutes, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return "", 0, false
	}
	return strings.Join(fields[:len(fields)-1], " "), minutes, true
}

// parseHistoryDays reads "/history [days]"; 0 means the default window
func parseHistoryDays(args string) (int, bool) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return 0, true
	case 1:
		days, err := strconv.Atoi(fields[0])
		if err != nil || days <= 0 {
			return 0, false
		}
		return days, true
	default:
		return 0, false
	}
}

func historyWindow(days int) int {
	switch {
	case days == 0:
		return services.DefaultHistoryDays
	case days > services.MaxHistoryDays:
		return services.MaxHistoryDays
	default:
		return days
	}
}

// requestKey identifies a ledger message for replay detection. Message ids
// are only unique within a chat.
func requestKey(message *tgbotapi.Message) string {
	return fmt.Sprintf("%d:%d", message.Chat.ID, message.MessageID)
}
