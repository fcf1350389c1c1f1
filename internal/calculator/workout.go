package calculator

import (
	"math"
	"strings"
)

// DefaultMET is used for workout types missing from the table.
const DefaultMET = 5.0

type metCoefficient struct {
	workout string
	met     float64
}

var metTable = []metCoefficient{
	{"ходьба", 3.5},
	{"бег", 8.0},
	{"велосипед", 6.0},
	{"плавание", 7.0},
	{"йога", 2.5},
	{"силовая", 5.0},
	{"тренировка", 5.0},
	{"отжимания", 3.8},
	{"приседания", 5.0},
	{"планка", 3.0},
	{"скакалка", 8.5},
	{"теннис", 7.0},
	{"футбол", 7.5},
	{"баскетбол", 6.5},
	{"танцы", 5.0},
	{"аэробика", 6.0},
}

// MET returns the energy-intensity coefficient of a workout type. The match
// is exact and case-insensitive.
func MET(workoutType string) (float64, bool) {
	name := strings.ToLower(strings.TrimSpace(workoutType))
	for _, c := range metTable {
		if c.workout == name {
			return c.met, true
		}
	}
	return DefaultMET, false
}

// KnownWorkouts lists the workout types with a dedicated coefficient.
func KnownWorkouts() []string {
	names := make([]string, 0, len(metTable))
	for _, c := range metTable {
		names = append(names, c.workout)
	}
	return names
}

// WorkoutCalories estimates the kcal burned by a workout.
func WorkoutCalories(workoutType string, minutes int, weight float64) int {
	met, _ := MET(workoutType)
	return int(math.RoundToEven(met * weight * float64(minutes) / 60))
}
