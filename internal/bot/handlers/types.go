package handlers

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/menus"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/interfaces"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// Sender is the part of *tgbotapi.BotAPI the handlers use
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Tracker interfaces.TrackerServiceInterface
}

func send(api Sender, chatID int64, text string) error {
	_, err := api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// replyError logs err and answers with a message matching its type.
// Validation messages are written for users and are shown unchanged.
func replyError(ctx context.Context, api Sender, chatID int64, err error) error {
	apperrors.NewHandler(logger.WithContext(ctx)).Handle(ctx, err)

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrProfileNotFound):
		return send(api, chatID, menus.CreateProfileFirstText)
	case errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation:
		return send(api, chatID, "❌ "+appErr.Message)
	default:
		return send(api, chatID, menus.ErrorText)
	}
}
