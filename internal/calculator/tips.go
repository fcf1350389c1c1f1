package calculator

import (
	"fmt"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

type tipRule struct {
	when func(s domain.DailyStats) bool
	text func(s domain.DailyStats) string
}

func always(domain.DailyStats) bool { return true }

func waterLeft(s domain.DailyStats) float64 {
	return float64(s.WaterGoal) - s.WaterDrunk
}

func caloriesLeft(s domain.DailyStats) float64 {
	return float64(s.CalorieGoal) - s.CalorieBalance()
}

var hydrationTips = []tipRule{
	{
		when: func(s domain.DailyStats) bool { return s.WaterDrunk == 0 },
		text: func(domain.DailyStats) string {
			return "💧 Вы еще не пили воду сегодня. Начните со стакана воды (200-300 мл)"
		},
	},
	{
		when: func(s domain.DailyStats) bool { return waterLeft(s) > 1500 },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("💧 Выпейте еще %.0f мл воды.", waterLeft(s))
		},
	},
	{
		when: func(s domain.DailyStats) bool { return waterLeft(s) > 500 },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("💧 Осталось %.0f мл воды до нормы", waterLeft(s))
		},
	},
	{
		when: always,
		text: func(domain.DailyStats) string { return "💧 Отлично! Вы достигли нормы по воде" },
	},
}

var calorieTips = []tipRule{
	{
		when: func(s domain.DailyStats) bool { return s.CalorieBalance() < -500 },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("🔥 Дефицит калорий: %.0f ккал. Можно добавить полезные перекусы", -s.CalorieBalance())
		},
	},
	{
		when: func(s domain.DailyStats) bool { return caloriesLeft(s) > 1000 },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("🔥 Можно съесть еще %.0f ккал до нормы", caloriesLeft(s))
		},
	},
	{
		when: func(s domain.DailyStats) bool { return s.CalorieBalance() > float64(s.CalorieGoal) },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("🏃 Перебор на %.0f ккал. Добавьте активность", s.CalorieBalance()-float64(s.CalorieGoal))
		},
	},
	{
		when: always,
		text: func(domain.DailyStats) string { return "🔥 Калории в норме. Продолжайте в том же духе!" },
	},
}

var workoutTips = []tipRule{
	{
		when: func(s domain.DailyStats) bool { return s.Workout.Count == 0 },
		text: func(domain.DailyStats) string {
			return "🚶‍♂️ Сегодня не было тренировок. Попробуйте 15-минутную прогулку"
		},
	},
	{
		when: func(s domain.DailyStats) bool { return s.Workout.Count == 1 },
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("🏃 Отлично! Сегодня была тренировка: сожжено %.0f ккал", s.CaloriesBurned)
		},
	},
	{
		when: always,
		text: func(s domain.DailyStats) string {
			return fmt.Sprintf("🏃‍♀️ Отличная активность! %d тренировок сегодня", s.Workout.Count)
		},
	},
}

// tipTopics are evaluated in this order, one tip per topic.
var tipTopics = [][]tipRule{hydrationTips, calorieTips, workoutTips}

var generalTips = []string{
	"🍎 Не забывайте про овощи и фрукты",
	"⏰ Питайтесь регулярно, каждые 3-4 часа",
}

// AdvisoryTips returns one tip per topic followed by the general tips.
func AdvisoryTips(s domain.DailyStats) []string {
	tips := make([]string, 0, len(tipTopics)+len(generalTips))
	for _, rules := range tipTopics {
		for _, r := range rules {
			if r.when(s) {
				tips = append(tips, r.text(s))
				break
			}
		}
	}
	return append(tips, generalTips...)
}
