package menus

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/health-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/health-tracker/internal/calculator"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	"github.com/vladimiradmaev/health-tracker/internal/services"
)

const dateLayout = "02.01.2006"

// Fixed replies
const (
	WelcomeText = `🤖 Бот для контроля здоровья

📋 Команды:
/profile - мой профиль
/setprofile - создать профиль
/water 500 - записать воду
/food яблоко 200 - записать еду
/workout бег 30 - записать тренировку
/progress - прогресс за сегодня
/tips - рекомендации
/history 7 - записи за последние дни
/reset - сбросить данные за сегодня
/help - помощь по командам`

	HelpText = `❓ Помощь по командам:

💧 /water 500 - запишите количество воды в мл
🍎 /food яблоко 200 - запишите еду (название и граммы, по умолчанию 100 г)
🏃 /workout бег 30 - запишите тренировку (тип и минуты)
📊 /progress - посмотрите свой прогресс
💡 /tips - персонализированные рекомендации
🗓 /history 7 - записи за последние дни (до 30)
👤 /profile - информация о профиле
📝 /setprofile - создать или обновить профиль
✖️ /cancel - прервать создание профиля
🔄 /reset - сбросить данные за сегодня`

	UnknownCommandText = `❌ Неизвестная команда

📋 Правильные команды:
/water 500 - записать воду
/food яблоко 200 - записать еду
/workout бег 30 - записать тренировку
/start - все команды`

	HintText               = "Используйте /start для списка команд"
	CreateProfileFirstText = "❌ Сначала создайте профиль: /setprofile"
	ResetDoneText          = "✅ Данные за сегодня сброшены. Профиль и цели сохранены."
	CancelledText          = "✖️ Создание профиля отменено"
	NothingToCancelText    = "Нечего отменять"
	ErrorText              = "❌ Произошла ошибка при обработке команды. Попробуйте еще раз."

	WaterUsageText   = "❌ Используйте: /water 500\nПример: /water 300"
	FoodUsageText    = "❌ Используйте: /food яблоко 200\nПример: /food банан 150"
	WorkoutUsageText = "❌ Используйте: /workout бег 30\nПример: /workout ходьба 45"
	HistoryUsageText = "❌ Используйте: /history 7\nМожно указать от 1 до 30 дней"
)

// MainMenuMessage builds the welcome message with the main menu keyboard
func MainMenuMessage(chatID int64) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, WelcomeText)
	msg.ReplyMarkup = keyboards.MainMenu()
	return msg
}

// OnboardingPrompt returns the question asked at step
func OnboardingPrompt(step domain.OnboardingStep) string {
	header := fmt.Sprintf("Шаг %d из %d: ", step.Number(), len(domain.OnboardingSteps))

	switch step {
	case domain.StepWeight:
		return header + "Введите ваш вес (кг):"
	case domain.StepHeight:
		return header + "Введите ваш рост (см):"
	case domain.StepAge:
		return header + "Введите ваш возраст (лет):"
	case domain.StepActivity:
		return header + `Введите вашу ежедневную активность (мин/день):

Примеры:
• 30 - минимальная активность
• 60 - умеренная активность
• 90 - высокая активность`
	case domain.StepCity:
		return header + `Введите ваш город:

Примеры:
• Москва
• Санкт-Петербург
• Казань

Город нужен для учета погоды в расчетах`
	default:
		return ""
	}
}

// OnboardingStart opens the profile dialogue
func OnboardingStart() string {
	return "📝 Создание профиля\n\n" + OnboardingPrompt(domain.OnboardingSteps[0])
}

// OnboardingRetry repeats the current question after a rejected answer
func OnboardingRetry(reason string, step domain.OnboardingStep) string {
	return fmt.Sprintf("❌ %s\n\n%s", reason, OnboardingPrompt(step))
}

// ProfileCreated summarizes a completed dialogue
func ProfileCreated(p *domain.UserProfile, temperature float64) string {
	return fmt.Sprintf(`✅ Профиль сохранен!

📊 Ваши параметры:
• Вес: %g кг
• Рост: %g см
• Возраст: %d лет
• Активность: %d мин/день
• Город: %s
• Температура: %.1f°C

🎯 Ваши дневные цели:
💧 Вода: %d мл
🔥 Калории: %d ккал

📝 Теперь используйте команды:
• /water 500 - записать воду
• /food яблоко 200 - записать еду
• /workout бег 30 - записать тренировку
• /progress - посмотреть прогресс
• /tips - получить рекомендации`,
		p.Weight, p.Height, p.Age, p.Activity, p.City, temperature,
		p.WaterGoal, p.CalorieGoal)
}

// Profile renders the stored profile
func Profile(view *services.ProfileView) string {
	p := view.Profile
	return fmt.Sprintf(`👤 Ваш профиль:

📏 Антропометрия:
• Вес: %g кг
• Рост: %g см
• Возраст: %d лет
• Активность: %d мин/день

📍 Локация:
• Город: %s
• Температура: %.1f°C

🎯 Дневные цели:
• Вода: %d мл
• Калории: %d ккал`,
		p.Weight, p.Height, p.Age, p.Activity,
		p.City, view.Temperature,
		p.WaterGoal, p.CalorieGoal)
}

// WaterLogged confirms a water entry
func WaterLogged(r *services.WaterResult) string {
	pct := calculator.WaterProgress(r.Stats)
	return fmt.Sprintf("✅ Записано: %.0f мл воды\n💧 Всего сегодня: %.0f/%d мл\n%s %d%%",
		r.Entry.Amount,
		r.Stats.WaterDrunk, r.Stats.WaterGoal,
		calculator.ProgressBar(pct, calculator.ProgressBarLength), pct)
}

// FoodLogged confirms a food entry
func FoodLogged(r *services.FoodResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s\n", r.Name)
	fmt.Fprintf(&b, "🍎 %.0f ккал/100г%s\n", r.Per100, sourceNote(r.Source))
	fmt.Fprintf(&b, "🍽 Порция: %dг = %.0f ккал\n", r.Grams, r.Calories)
	fmt.Fprintf(&b, "📊 Всего съедено: %.0f ккал", r.Stats.CaloriesEaten)
	return b.String()
}

func sourceNote(source calculator.CalorieSource) string {
	switch source {
	case calculator.SourceCategory:
		return " (оценка по категории)"
	case calculator.SourceDefault:
		return " (продукт не найден, среднее значение)"
	default:
		return ""
	}
}

// WorkoutLogged confirms a workout entry
func WorkoutLogged(r *services.WorkoutResult) string {
	text := fmt.Sprintf("✅ %s\n⏱ %d минут\n🔥 Сожжено: %d ккал\n📊 Всего сожжено: %.0f ккал",
		r.Type, r.Minutes, r.Calories, r.Stats.CaloriesBurned)
	if !r.Known {
		text += fmt.Sprintf("\n\nℹ️ Тип тренировки не найден, использован коэффициент MET %.1f.\nИзвестные: %s",
			r.MET, strings.Join(calculator.KnownWorkouts(), ", "))
	}
	return text
}

// Progress renders today's totals against the goals
func Progress(s domain.DailyStats) string {
	waterPct := calculator.WaterProgress(s)
	caloriePct := calculator.CalorieProgress(s)

	return fmt.Sprintf(`📊 Прогресс за %s:

💧 ВОДА:
%.0f/%d мл
%s %d%%

🔥 КАЛОРИИ:
Съедено: %.0f ккал
Сожжено: %.0f ккал
Баланс: %.0f/%d ккал
%s %d%%

📈 Активность:
• Приемов пищи: %d
• Тренировок: %d`,
		s.Date.Format(dateLayout),
		s.WaterDrunk, s.WaterGoal,
		calculator.ProgressBar(waterPct, calculator.ProgressBarLength), waterPct,
		s.CaloriesEaten, s.CaloriesBurned,
		s.CalorieBalance(), s.CalorieGoal,
		calculator.ProgressBar(caloriePct, calculator.ProgressBarLength), caloriePct,
		s.Food.Count, s.Workout.Count)
}

// Tips renders the advice list for date
func Tips(date time.Time, tips []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💡 Персональные рекомендации на %s:\n", date.Format(dateLayout))
	for _, tip := range tips {
		fmt.Fprintf(&b, "\n• %s", tip)
	}
	return b.String()
}

// History renders ledger entries grouped by day, newest first
func History(entries []domain.LogEntry, days int) string {
	if len(entries) == 0 {
		return fmt.Sprintf("📭 За последние %d дн. записей нет", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🗓 История за %d дн.:\n", days)

	var day string
	for _, e := range entries {
		if d := e.CreatedAt.Format(dateLayout); d != day {
			day = d
			fmt.Fprintf(&b, "\n%s\n", day)
		}
		fmt.Fprintf(&b, "• %s %s %s: %s\n",
			e.CreatedAt.Format("15:04"), kindIcon(e.Kind), e.Label, amountText(e))
	}
	return strings.TrimRight(b.String(), "\n")
}

func kindIcon(kind domain.EntryKind) string {
	switch kind {
	case domain.KindWater:
		return "💧"
	case domain.KindFood:
		return "🍎"
	case domain.KindWorkout:
		return "🏃"
	default:
		return "•"
	}
}

func amountText(e domain.LogEntry) string {
	switch e.Kind {
	case domain.KindWater:
		return fmt.Sprintf("%.0f мл", e.Amount)
	case domain.KindWorkout:
		return fmt.Sprintf("-%.0f ккал", e.Amount)
	default:
		return fmt.Sprintf("%.0f ккал", e.Amount)
	}
}
