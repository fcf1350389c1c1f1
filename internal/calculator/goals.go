// Package calculator holds the pure functions that turn physiological and
// environmental inputs into daily targets, workouts into burned energy and
// daily totals into progress and advice.
package calculator

import "math"

const (
	waterPerKg          = 30.0 // ml per kg of body weight
	waterPerActivity    = 200  // ml per full activity block
	activityBlock       = 30   // minutes
	hotWeatherBonus     = 1000.0
	warmWeatherBonus    = 500.0
	coldWeatherFactor   = 0.9
	hotThreshold        = 30.0
	warmThreshold       = 25.0
	freezingThreshold   = 0.0
	DefaultCalorieGoal  = 2000
	MinWaterGoal        = 100
	waterGoalRounding   = 100.0
	calorieGoalRounding = 50.0
)

// activityFactor is one bucket of the activity multiplier table.
type activityFactor struct {
	below  int // exclusive upper bound in minutes, 0 for the last bucket
	factor float64
}

// activityFactors are evaluated in order; the first bucket whose bound the
// activity is below wins, the last bucket has no bound.
var activityFactors = []activityFactor{
	{below: 30, factor: 1.2},
	{below: 60, factor: 1.375},
	{below: 90, factor: 1.55},
	{below: 0, factor: 1.725},
}

// DailyWaterGoal returns the daily water target in ml.
func DailyWaterGoal(weight float64, activityMinutes int, ambientTempC float64) int {
	base := weight * waterPerKg

	activity := 0.0
	if activityMinutes >= activityBlock {
		activity = float64(activityMinutes/activityBlock) * waterPerActivity
	}

	weather := 0.0
	switch {
	case ambientTempC > hotThreshold:
		weather = hotWeatherBonus
	case ambientTempC > warmThreshold:
		weather = warmWeatherBonus
	case ambientTempC < freezingThreshold:
		base *= coldWeatherFactor
	}

	goal := roundTo(base+activity+weather, waterGoalRounding)
	if goal <= 0 {
		return MinWaterGoal
	}
	return goal
}

// DailyCalorieGoal returns the daily calorie target in kcal using the
// Mifflin-St Jeor basal rate.
func DailyCalorieGoal(weight, height float64, age, activityMinutes int) int {
	if weight <= 0 || height <= 0 || age <= 0 {
		return DefaultCalorieGoal
	}

	bmr := 10*weight + 6.25*height - 5*float64(age) + 5
	goal := roundTo(bmr*ActivityFactor(activityMinutes), calorieGoalRounding)
	if goal <= 0 {
		return DefaultCalorieGoal
	}
	return goal
}

// ActivityFactor returns the multiplier for the given daily activity minutes.
func ActivityFactor(activityMinutes int) float64 {
	for _, b := range activityFactors {
		if b.below == 0 || activityMinutes < b.below {
			return b.factor
		}
	}
	return activityFactors[len(activityFactors)-1].factor
}

// roundTo rounds v to the nearest multiple of step, ties to even.
// Values outside the int range, or NaN, round to 0.
func roundTo(v, step float64) int {
	r := math.RoundToEven(v/step) * step
	if math.IsNaN(r) || r >= math.MaxInt32 || r <= math.MinInt32 {
		return 0
	}
	return int(r)
}
