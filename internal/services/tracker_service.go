package services

import (
	"context"
	"strings"

	"github.com/vladimiradmaev/health-tracker/internal/calculator"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// Portion and duration limits accepted from users
const (
	DefaultFoodGrams = 100
	MaxFoodGrams     = 5000
	MaxWaterML       = 5000
	MaxWorkoutMin    = 24 * 60
)

// WaterResult is returned after logging water
type WaterResult struct {
	Entry *domain.LogEntry
	Stats domain.DailyStats
}

// FoodResult is returned after logging food
type FoodResult struct {
	Entry    *domain.LogEntry
	Name     string
	Grams    int
	Per100   float64
	Source   calculator.CalorieSource
	Calories float64
	Stats    domain.DailyStats
}

// WorkoutResult is returned after logging a workout
type WorkoutResult struct {
	Entry    *domain.LogEntry
	Type     string
	Minutes  int
	MET      float64
	Known    bool
	Calories int
	Stats    domain.DailyStats
}

// ProfileView is a profile with the current weather of its city
type ProfileView struct {
	Profile     *domain.UserProfile
	Temperature float64
}

// TrackerService is the single entry point used by the bot. Every call is
// serialized per user; different users proceed in parallel.
type TrackerService struct {
	ledger     *LedgerService
	onboarding *OnboardingService
	foods      *calculator.FoodCalorieResolver
	weather    domain.TemperatureLookup
	locks      *utils.KeyedMutex
}

func NewTrackerService(ledger *LedgerService, onboarding *OnboardingService, foods *calculator.FoodCalorieResolver, weather domain.TemperatureLookup) *TrackerService {
	return &TrackerService{
		ledger:     ledger,
		onboarding: onboarding,
		foods:      foods,
		weather:    weather,
		locks:      utils.NewKeyedMutex(),
	}
}

// StartOnboarding opens a fresh profile dialogue
func (s *TrackerService) StartOnboarding(ctx context.Context, userID int64) error {
	defer s.locks.Lock(userID)()
	return s.onboarding.Start(ctx, userID)
}

// SubmitAnswer passes a plain message to the open dialogue
func (s *TrackerService) SubmitAnswer(ctx context.Context, userID int64, text string) (*StepResult, error) {
	defer s.locks.Lock(userID)()
	return s.onboarding.Submit(ctx, userID, text)
}

// InOnboarding reports whether the user has an open dialogue
func (s *TrackerService) InOnboarding(ctx context.Context, userID int64) (bool, error) {
	defer s.locks.Lock(userID)()
	return s.onboarding.Active(ctx, userID)
}

// OnboardingStep returns the step awaiting an answer
func (s *TrackerService) OnboardingStep(ctx context.Context, userID int64) (domain.OnboardingStep, error) {
	defer s.locks.Lock(userID)()
	return s.onboarding.CurrentStep(ctx, userID)
}

// CancelOnboarding discards the dialogue and reports whether one was open
func (s *TrackerService) CancelOnboarding(ctx context.Context, userID int64) (bool, error) {
	defer s.locks.Lock(userID)()
	active, err := s.onboarding.Active(ctx, userID)
	if err != nil || !active {
		return false, err
	}
	return true, s.onboarding.Cancel(ctx, userID)
}

// LogWater records ml of water
func (s *TrackerService) LogWater(ctx context.Context, userID int64, requestID string, ml float64) (*WaterResult, error) {
	if ml > MaxWaterML {
		return nil, apperrors.NewValidationError("Слишком много воды за один раз, максимум 5000 мл").WithContext("amount", ml)
	}

	defer s.locks.Lock(userID)()

	entry, err := s.ledger.AppendEvent(ctx, domain.LogEntry{
		UserID:    userID,
		Kind:      domain.KindWater,
		Label:     "вода",
		Amount:    ml,
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.ledger.GetDailyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WaterResult{Entry: entry, Stats: stats}, nil
}

// LogFood resolves the calorie density of name and records a portion of grams
func (s *TrackerService) LogFood(ctx context.Context, userID int64, requestID, name string, grams int) (*FoodResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("Укажите название продукта")
	}
	if grams <= 0 || grams > MaxFoodGrams {
		return nil, apperrors.NewValidationError("Вес порции должен быть от 1 до 5000 г").WithContext("grams", grams)
	}

	defer s.locks.Lock(userID)()

	if _, err := s.ledger.Profile(ctx, userID); err != nil {
		return nil, err
	}

	per100, source := s.foods.Resolve(ctx, name)
	calories := calculator.FoodCalories(per100, grams)
	logger.WithContext(ctx).Debug("Food resolved",
		"user_id", userID,
		"food", name,
		"kcal_per_100g", per100,
		"source", source,
	)

	entry, err := s.ledger.AppendEvent(ctx, domain.LogEntry{
		UserID:    userID,
		Kind:      domain.KindFood,
		Label:     name,
		Amount:    calories,
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.ledger.GetDailyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FoodResult{
		Entry:    entry,
		Name:     name,
		Grams:    grams,
		Per100:   per100,
		Source:   source,
		Calories: entry.Amount,
		Stats:    stats,
	}, nil
}

// LogWorkout records the calories burned by minutes of workoutType
func (s *TrackerService) LogWorkout(ctx context.Context, userID int64, requestID, workoutType string, minutes int) (*WorkoutResult, error) {
	workoutType = strings.ToLower(strings.TrimSpace(workoutType))
	if workoutType == "" {
		return nil, apperrors.NewValidationError("Укажите тип тренировки")
	}
	if minutes <= 0 || minutes > MaxWorkoutMin {
		return nil, apperrors.NewValidationError("Длительность должна быть от 1 до 1440 минут").WithContext("minutes", minutes)
	}

	defer s.locks.Lock(userID)()

	profile, err := s.ledger.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	met, known := calculator.MET(workoutType)
	burned := calculator.WorkoutCalories(workoutType, minutes, profile.Weight)

	entry, err := s.ledger.AppendEvent(ctx, domain.LogEntry{
		UserID:    userID,
		Kind:      domain.KindWorkout,
		Label:     workoutType,
		Amount:    float64(burned),
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}

	stats, err := s.ledger.GetDailyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WorkoutResult{
		Entry:    entry,
		Type:     workoutType,
		Minutes:  minutes,
		MET:      met,
		Known:    known,
		Calories: int(entry.Amount),
		Stats:    stats,
	}, nil
}

// TodayStats returns the ledger view of the current day
func (s *TrackerService) TodayStats(ctx context.Context, userID int64) (domain.DailyStats, error) {
	defer s.locks.Lock(userID)()
	return s.ledger.GetDailyStats(ctx, userID)
}

// Tips returns advice derived from today's stats
func (s *TrackerService) Tips(ctx context.Context, userID int64) ([]string, error) {
	defer s.locks.Lock(userID)()
	stats, err := s.ledger.GetDailyStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calculator.AdvisoryTips(stats), nil
}

// Profile returns the profile and the current temperature of its city
func (s *TrackerService) Profile(ctx context.Context, userID int64) (*ProfileView, error) {
	defer s.locks.Lock(userID)()
	profile, err := s.ledger.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		Profile:     profile,
		Temperature: s.weather.AmbientTemp(ctx, profile.City),
	}, nil
}

// History returns the entries of the last days calendar days
func (s *TrackerService) History(ctx context.Context, userID int64, days int) ([]domain.LogEntry, error) {
	defer s.locks.Lock(userID)()
	return s.ledger.History(ctx, userID, days)
}

// Reset clears today's data and any open dialogue. The profile is kept.
func (s *TrackerService) Reset(ctx context.Context, userID int64) error {
	defer s.locks.Lock(userID)()
	if err := s.onboarding.Cancel(ctx, userID); err != nil {
		return err
	}
	if err := s.ledger.Reset(ctx, userID); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("User data reset", "user_id", userID)
	return nil
}
