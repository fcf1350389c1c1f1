package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	api      Sender
	deps     Dependencies
	commands *CommandHandler
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api Sender, deps Dependencies, commands *CommandHandler) *CallbackHandler {
	return &CallbackHandler{
		api:      api,
		deps:     deps,
		commands: commands,
	}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	answerCallback(ctx, h.api, query)

	chatID, userID := query.Message.Chat.ID, query.From.ID
	logger.WithContext(ctx).Info("Handling callback", "data", query.Data, "user_id", userID)

	switch query.Data {
	case keyboards.CallbackProgress:
		return h.commands.progress(ctx, chatID, userID)
	case keyboards.CallbackTips:
		return h.commands.tips(ctx, chatID, userID)
	case keyboards.CallbackProfile:
		return h.commands.profile(ctx, chatID, userID)
	case keyboards.CallbackHelp:
		return h.commands.help(chatID)
	case keyboards.CallbackCancel:
		return h.commands.cancel(ctx, chatID, userID)
	case keyboards.CallbackMainMenu:
		_, err := h.api.Send(menus.MainMenuMessage(chatID))
		return err
	default:
		return h.handleUnknownCallback(chatID)
	}
}

// handleUnknownCallback handles buttons of outdated menus
func (h *CallbackHandler) handleUnknownCallback(chatID int64) error {
	return send(h.api, chatID, menus.HintText)
}

// answerCallback removes the loading state of the pressed button
func answerCallback(ctx context.Context, api Sender, query *tgbotapi.CallbackQuery) {
	if _, err := api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.WithContext(ctx).Warn("Failed to answer callback query", "error", err)
	}
}
