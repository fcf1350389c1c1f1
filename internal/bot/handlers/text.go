package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// TextHandler handles plain text messages
type TextHandler struct {
	api  Sender
	deps Dependencies
}

// NewTextHandler creates a new text handler
func NewTextHandler(api Sender, deps Dependencies) *TextHandler {
	return &TextHandler{
		api:  api,
		deps: deps,
	}
}

// HandleAnswer feeds the message to the open onboarding session
func (h *TextHandler) HandleAnswer(ctx context.Context, message *tgbotapi.Message) error {
	chatID, userID := message.Chat.ID, message.From.ID

	res, err := h.deps.Tracker.SubmitAnswer(ctx, userID, message.Text)
	if err != nil {
		var appErr *apperrors.AppError
		switch {
		case errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation:
			logger.WithContext(ctx).Debug("Onboarding answer rejected", "user_id", userID, "step", appErr.Context["step"])
			step, _ := appErr.Context["step"].(domain.OnboardingStep)
			return h.prompt(chatID, menus.OnboardingRetry(appErr.Message, step))
		case errors.Is(err, apperrors.ErrSessionNotFound):
			return h.HandleHint(chatID)
		default:
			return replyError(ctx, h.api, chatID, err)
		}
	}

	if res.Done {
		msg := tgbotapi.NewMessage(chatID, menus.ProfileCreated(res.Profile, res.Temperature))
		msg.ReplyMarkup = keyboards.MainMenu()
		_, err := h.api.Send(msg)
		return err
	}
	return h.prompt(chatID, "✅ Принято\n\n"+menus.OnboardingPrompt(res.Next))
}

// Remind repeats the question of the open session
func (h *TextHandler) Remind(ctx context.Context, chatID, userID int64) error {
	step, err := h.deps.Tracker.OnboardingStep(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionNotFound) {
			return h.HandleHint(chatID)
		}
		return replyError(ctx, h.api, chatID, err)
	}
	return h.prompt(chatID, "Сначала завершите создание профиля или отмените его: /cancel\n\n"+menus.OnboardingPrompt(step))
}

// HandleHint answers text that is neither a command nor an onboarding answer
func (h *TextHandler) HandleHint(chatID int64) error {
	return send(h.api, chatID, menus.HintText)
}

func (h *TextHandler) prompt(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.OnboardingMenu()
	_, err := h.api.Send(msg)
	return err
}
