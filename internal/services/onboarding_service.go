package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vladimiradmaev/health-tracker/internal/calculator"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// Onboarding answer limits
const (
	MinCityLength = 2 // characters
	MinWeightKg   = 1.0
	MaxWeightKg   = 500.0
	MinHeightCm   = 30.0
	MaxHeightCm   = 300.0
	MinAge        = 1
	MaxAge        = 150
	MaxActivity   = 24 * 60 // minutes
)

// StepResult describes the outcome of one accepted onboarding answer
type StepResult struct {
	Next        domain.OnboardingStep
	Done        bool
	Profile     *domain.UserProfile // set when Done
	Temperature float64             // set when Done
}

// OnboardingService drives the profile dialogue. Each answer is consumed by
// the current step; steps are never skipped or revisited.
type OnboardingService struct {
	sessions domain.SessionStore
	store    domain.Store
	weather  domain.TemperatureLookup
	now      func() time.Time
}

func NewOnboardingService(sessions domain.SessionStore, store domain.Store, weather domain.TemperatureLookup, now func() time.Time) *OnboardingService {
	if now == nil {
		now = time.Now
	}
	return &OnboardingService{
		sessions: sessions,
		store:    store,
		weather:  weather,
		now:      now,
	}
}

// Start opens a fresh session at the first step, discarding any previous one
func (s *OnboardingService) Start(ctx context.Context, userID int64) error {
	session := &domain.OnboardingSession{
		UserID:    userID,
		Step:      domain.OnboardingSteps[0],
		StartedAt: s.now(),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Onboarding started", "user_id", userID)
	return nil
}

// Active reports whether the user is in the middle of the dialogue
func (s *OnboardingService) Active(ctx context.Context, userID int64) (bool, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return session != nil, nil
}

// Cancel discards the user's session, if any
func (s *OnboardingService) Cancel(ctx context.Context, userID int64) error {
	return s.sessions.Delete(ctx, userID)
}

// CurrentStep returns the step awaiting an answer
func (s *OnboardingService) CurrentStep(ctx context.Context, userID int64) (domain.OnboardingStep, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", apperrors.NewSessionNotFoundError(userID)
	}
	return session.Step, nil
}

// Submit consumes the answer for the current step. Invalid answers leave the
// session untouched. The final step computes the goals and stores the profile.
func (s *OnboardingService) Submit(ctx context.Context, userID int64, text string) (*StepResult, error) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NewSessionNotFoundError(userID)
	}

	if err := applyAnswer(session, text); err != nil {
		return nil, err
	}

	if session.Step == domain.StepCity {
		return s.complete(ctx, session, strings.TrimSpace(text))
	}

	session.Step = session.Step.Next()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &StepResult{Next: session.Step}, nil
}

func (s *OnboardingService) complete(ctx context.Context, session *domain.OnboardingSession, city string) (*StepResult, error) {
	log := logger.WithContext(ctx)

	temp := s.weather.AmbientTemp(ctx, city)
	now := s.now()
	today := utils.DateOf(now)

	profile := &domain.UserProfile{
		UserID:        session.UserID,
		Weight:        session.Weight,
		Height:        session.Height,
		Age:           session.Age,
		Activity:      session.Activity,
		City:          city,
		WaterGoal:     calculator.DailyWaterGoal(session.Weight, session.Activity, temp),
		CalorieGoal:   calculator.DailyCalorieGoal(session.Weight, session.Height, session.Age, session.Activity),
		LastResetDate: today,
	}

	err := s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		existing, err := tx.GetProfile(ctx, session.UserID)
		switch {
		case err == nil:
			profile.WaterDrunk = existing.WaterDrunk
			profile.CaloriesEaten = existing.CaloriesEaten
			profile.CaloriesBurned = existing.CaloriesBurned
			profile.LastResetDate = existing.LastResetDate
			profile.CreatedAt = existing.CreatedAt
		case apperrors.TypeOf(err) != apperrors.ErrorTypeNotFound:
			return err
		}
		return tx.SaveProfile(ctx, profile)
	})

	if delErr := s.sessions.Delete(ctx, session.UserID); delErr != nil {
		log.Warn("Failed to delete onboarding session", "user_id", session.UserID, "error", delErr)
	}
	if err != nil {
		log.Error("Failed to save profile, onboarding discarded", "user_id", session.UserID, "error", err)
		return nil, err
	}

	log.Info("Profile saved",
		"user_id", profile.UserID,
		"water_goal", profile.WaterGoal,
		"calorie_goal", profile.CalorieGoal,
		"temperature", temp,
	)
	return &StepResult{
		Next:        domain.StepComplete,
		Done:        true,
		Profile:     profile,
		Temperature: temp,
	}, nil
}

// applyAnswer parses text for the session's current step and stores it
func applyAnswer(session *domain.OnboardingSession, text string) error {
	text = strings.TrimSpace(text)

	switch session.Step {
	case domain.StepWeight:
		v, ok := parseFloatInRange(text, MinWeightKg, MaxWeightKg)
		if !ok {
			return stepError(session.Step, "Вес должен быть числом от 1 до 500 кг, например 70 или 70.5")
		}
		session.Weight = v
	case domain.StepHeight:
		v, ok := parseFloatInRange(text, MinHeightCm, MaxHeightCm)
		if !ok {
			return stepError(session.Step, "Рост должен быть числом от 30 до 300 см, например 175")
		}
		session.Height = v
	case domain.StepAge:
		v, err := strconv.Atoi(text)
		if err != nil || v < MinAge || v > MaxAge {
			return stepError(session.Step, "Возраст должен быть целым числом от 1 до 150")
		}
		session.Age = v
	case domain.StepActivity:
		v, err := strconv.Atoi(text)
		if err != nil || v < 0 || v > MaxActivity {
			return stepError(session.Step, "Активность должна быть целым числом минут от 0 до 1440")
		}
		session.Activity = v
	case domain.StepCity:
		if utf8.RuneCountInString(text) < MinCityLength {
			return stepError(session.Step, "Название города должно содержать хотя бы 2 символа")
		}
	default:
		return apperrors.NewInternalError(nil).WithContext("step", session.Step)
	}
	return nil
}

func parseFloatInRange(text string, lo, hi float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || v < lo || v > hi {
		return 0, false
	}
	return v, true
}

func stepError(step domain.OnboardingStep, message string) *apperrors.AppError {
	return apperrors.NewValidationError(message).WithContext("step", step)
}
