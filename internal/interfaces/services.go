package interfaces

import (
	"context"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	"github.com/vladimiradmaev/health-tracker/internal/services"
)

// OnboardingServiceInterface defines the contract for the profile dialogue
type OnboardingServiceInterface interface {
	StartOnboarding(ctx context.Context, userID int64) error
	SubmitAnswer(ctx context.Context, userID int64, text string) (*services.StepResult, error)
	InOnboarding(ctx context.Context, userID int64) (bool, error)
	OnboardingStep(ctx context.Context, userID int64) (domain.OnboardingStep, error)
	CancelOnboarding(ctx context.Context, userID int64) (bool, error)
}

// LedgerServiceInterface defines the contract for logging and reading the daily ledger
type LedgerServiceInterface interface {
	LogWater(ctx context.Context, userID int64, requestID string, ml float64) (*services.WaterResult, error)
	LogFood(ctx context.Context, userID int64, requestID, name string, grams int) (*services.FoodResult, error)
	LogWorkout(ctx context.Context, userID int64, requestID, workoutType string, minutes int) (*services.WorkoutResult, error)
	TodayStats(ctx context.Context, userID int64) (domain.DailyStats, error)
	Tips(ctx context.Context, userID int64) ([]string, error)
	History(ctx context.Context, userID int64, days int) ([]domain.LogEntry, error)
	Reset(ctx context.Context, userID int64) error
}

// TrackerServiceInterface is everything the bot handlers call
type TrackerServiceInterface interface {
	OnboardingServiceInterface
	LedgerServiceInterface
	Profile(ctx context.Context, userID int64) (*services.ProfileView, error)
}

var _ TrackerServiceInterface = (*services.TrackerService)(nil)
