package domain

import (
	"time"
)

// EntryKind is the type of a logged event
type EntryKind string

const (
	KindWater   EntryKind = "water"
	KindFood    EntryKind = "food"
	KindWorkout EntryKind = "workout"
)

// Valid reports whether k is one of the known kinds
func (k EntryKind) Valid() bool {
	switch k {
	case KindWater, KindFood, KindWorkout:
		return true
	}
	return false
}

// UserProfile holds a user's physiological data, daily goals and today's
// running totals.
type UserProfile struct {
	UserID         int64
	Weight         float64 // kg
	Height         float64 // cm
	Age            int
	Activity       int // minutes per day
	City           string
	WaterGoal      int // ml
	CalorieGoal    int // kcal
	WaterDrunk     float64
	CaloriesEaten  float64
	CaloriesBurned float64
	LastResetDate  time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ResetTotals zeroes the running totals and moves LastResetDate to today.
func (p *UserProfile) ResetTotals(today time.Time) {
	p.WaterDrunk = 0
	p.CaloriesEaten = 0
	p.CaloriesBurned = 0
	p.LastResetDate = today
}

// AddToTotal adds amount to the total matching kind.
func (p *UserProfile) AddToTotal(kind EntryKind, amount float64) {
	switch kind {
	case KindWater:
		p.WaterDrunk += amount
	case KindFood:
		p.CaloriesEaten += amount
	case KindWorkout:
		p.CaloriesBurned += amount
	}
}

// LogEntry is an immutable ledger record
type LogEntry struct {
	ID        uint
	UserID    int64
	Kind      EntryKind
	Label     string
	Amount    float64 // ml for water, kcal for food and workout
	RequestID string  // replay key, empty when the caller has none
	CreatedAt time.Time
}

// KindSummary aggregates today's entries of one kind
type KindSummary struct {
	Count int
	Total float64
}

// DailyStats is the ledger view of a single day
type DailyStats struct {
	UserID         int64
	Date           time.Time
	WaterDrunk     float64
	CaloriesEaten  float64
	CaloriesBurned float64
	WaterGoal      int
	CalorieGoal    int
	Water          KindSummary
	Food           KindSummary
	Workout        KindSummary
}

// CalorieBalance returns eaten minus burned calories
func (s DailyStats) CalorieBalance() float64 {
	return s.CaloriesEaten - s.CaloriesBurned
}

// OnboardingStep is a state of the profile dialogue
type OnboardingStep string

const (
	StepWeight   OnboardingStep = "weight"
	StepHeight   OnboardingStep = "height"
	StepAge      OnboardingStep = "age"
	StepActivity OnboardingStep = "activity"
	StepCity     OnboardingStep = "city"
	StepComplete OnboardingStep = "complete"
)

// OnboardingSteps lists the input steps in the order they are asked.
var OnboardingSteps = []OnboardingStep{StepWeight, StepHeight, StepAge, StepActivity, StepCity}

// Next returns the step following s
func (s OnboardingStep) Next() OnboardingStep {
	for i, step := range OnboardingSteps {
		if step == s && i+1 < len(OnboardingSteps) {
			return OnboardingSteps[i+1]
		}
	}
	return StepComplete
}

// Number returns the 1-based position of s, or 0 for unknown steps
func (s OnboardingStep) Number() int {
	for i, step := range OnboardingSteps {
		if step == s {
			return i + 1
		}
	}
	return 0
}

// OnboardingSession is the transient state of a profile dialogue
type OnboardingSession struct {
	UserID    int64          `json:"user_id"`
	Step      OnboardingStep `json:"step"`
	Weight    float64        `json:"weight,omitempty"`
	Height    float64        `json:"height,omitempty"`
	Age       int            `json:"age,omitempty"`
	Activity  int            `json:"activity,omitempty"`
	StartedAt time.Time      `json:"started_at"`
}
