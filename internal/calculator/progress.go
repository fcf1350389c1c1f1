package calculator

import (
	"math"
	"strings"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

// ProgressBarLength is the number of slots in a rendered progress bar.
const ProgressBarLength = 10

const (
	barFilled = "█"
	barEmpty  = "░"
)

// WaterProgress returns today's water progress in percent, capped at 100.
func WaterProgress(s domain.DailyStats) int {
	if s.WaterGoal <= 0 {
		return 0
	}
	pct := int(math.Round(100 * s.WaterDrunk / float64(s.WaterGoal)))
	return clampPercent(pct)
}

// CalorieProgress returns the calorie balance as percent of the goal,
// clamped to [0, 100].
func CalorieProgress(s domain.DailyStats) int {
	if s.CalorieGoal <= 0 {
		return 0
	}
	pct := int(math.Round(100 * s.CalorieBalance() / float64(s.CalorieGoal)))
	return clampPercent(pct)
}

func clampPercent(pct int) int {
	return min(100, max(0, pct))
}

// ProgressBar renders pct as a bar of length slots, flooring the filled count.
func ProgressBar(pct, length int) string {
	pct = clampPercent(pct)
	filled := length * pct / 100
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, length-filled)
}
