package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// Destination is the handler an update is dispatched to
type Destination int

const (
	ToNothing    Destination = iota
	ToControl                // control command, runs even during onboarding
	ToOnboarding             // answer to the current onboarding question
	ToPrompt                 // repeat the current onboarding question
	ToCommand
	ToCallback
	ToHint
)

func (d Destination) String() string {
	switch d {
	case ToControl:
		return "control"
	case ToOnboarding:
		return "onboarding"
	case ToPrompt:
		return "prompt"
	case ToCommand:
		return "command"
	case ToCallback:
		return "callback"
	case ToHint:
		return "hint"
	default:
		return "nothing"
	}
}

var controlCommands = map[string]bool{
	"setprofile": true,
	"reset":      true,
	"cancel":     true,
	"start":      true,
	"help":       true,
}

// IsControlCommand reports whether command bypasses an open onboarding session
func IsControlCommand(command string) bool {
	return controlCommands[strings.ToLower(command)]
}

// Route decides which handler serves update. inOnboarding tells whether the
// sender has an open onboarding session.
func Route(update tgbotapi.Update, inOnboarding bool) Destination {
	if query := update.CallbackQuery; query != nil {
		if query.Message == nil {
			return ToNothing
		}
		if inOnboarding && query.Data != keyboards.CallbackCancel {
			return ToPrompt
		}
		return ToCallback
	}

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return ToNothing
	}

	switch {
	case msg.IsCommand() && IsControlCommand(msg.Command()):
		return ToControl
	case inOnboarding:
		return ToOnboarding
	case msg.IsCommand():
		return ToCommand
	case msg.Text != "":
		return ToHint
	default:
		return ToNothing
	}
}

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             Sender
	deps            Dependencies
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(api Sender, deps Dependencies) *UpdateHandler {
	commandHandler := NewCommandHandler(api, deps)
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		callbackHandler: NewCallbackHandler(api, deps, commandHandler),
		commandHandler:  commandHandler,
		textHandler:     NewTextHandler(api, deps),
	}
}

// Handle processes a telegram update
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	userID, chatID := sender(update)
	if userID == 0 {
		return nil
	}

	inOnboarding, err := h.deps.Tracker.InOnboarding(ctx, userID)
	if err != nil {
		return replyError(ctx, h.api, chatID, err)
	}

	dest := Route(update, inOnboarding)
	logger.WithContext(ctx).Debug("Update routed", "user_id", userID, "destination", dest.String())

	switch dest {
	case ToControl:
		return h.commandHandler.HandleControl(ctx, update.Message)
	case ToOnboarding:
		return h.textHandler.HandleAnswer(ctx, update.Message)
	case ToPrompt:
		answerCallback(ctx, h.api, update.CallbackQuery)
		return h.textHandler.Remind(ctx, chatID, userID)
	case ToCommand:
		return h.commandHandler.Handle(ctx, update.Message)
	case ToCallback:
		return h.callbackHandler.Handle(ctx, update.CallbackQuery)
	case ToHint:
		return h.textHandler.HandleHint(update.Message.Chat.ID)
	default:
		return nil
	}
}

func sender(update tgbotapi.Update) (userID, chatID int64) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.From.ID, update.CallbackQuery.Message.Chat.ID
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		return update.Message.From.ID, update.Message.Chat.ID
	default:
		return 0, 0
	}
}
