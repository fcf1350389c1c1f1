package keyboards

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data of the inline buttons
const (
	CallbackProgress = "progress"
	CallbackTips     = "tips"
	CallbackProfile  = "profile"
	CallbackHelp     = "help"
	CallbackCancel   = "cancel_onboarding"
	CallbackMainMenu = "main_menu"
)

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Прогресс", CallbackProgress),
			tgbotapi.NewInlineKeyboardButtonData("💡 Советы", CallbackTips),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👤 Профиль", CallbackProfile),
			tgbotapi.NewInlineKeyboardButtonData("❓ Помощь", CallbackHelp),
		),
	)
}

// OnboardingMenu lets the user leave the profile dialogue
func OnboardingMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", CallbackCancel),
		),
	)
}

// BackMenu returns to the main menu
func BackMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Главное меню", CallbackMainMenu),
		),
	)
}
