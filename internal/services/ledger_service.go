package services

import (
	"context"
	"math"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"github.com/vladimiradmaev/health-tracker/internal/logger"
	"github.com/vladimiradmaev/health-tracker/internal/utils"
)

// History window limits, in calendar days
const (
	DefaultHistoryDays = 7
	MaxHistoryDays     = 30
)

// LedgerService accumulates logged events per user and keeps the running
// totals in step with the calendar day.
type LedgerService struct {
	store domain.Store
	now   func() time.Time
}

func NewLedgerService(store domain.Store, now func() time.Time) *LedgerService {
	if now == nil {
		now = time.Now
	}
	return &LedgerService{store: store, now: now}
}

// rollover zeroes stale totals. It must run inside the transaction that
// reads or writes the totals.
func rollover(ctx context.Context, tx domain.StoreTx, profile *domain.UserProfile, now time.Time) error {
	if !utils.BeforeDay(profile.LastResetDate, now) {
		return nil
	}

	today := utils.DateOf(now)
	if err := tx.ResetTotals(ctx, profile.UserID, today); err != nil {
		return err
	}
	logger.WithContext(ctx).Info("Daily totals rolled over",
		"user_id", profile.UserID,
		"previous_date", profile.LastResetDate.Format(time.DateOnly),
	)
	profile.ResetTotals(today)
	return nil
}

func validateEntry(entry *domain.LogEntry) error {
	if !entry.Kind.Valid() {
		return apperrors.NewValidationError("unknown entry kind").WithContext("kind", entry.Kind)
	}
	if math.IsNaN(entry.Amount) || math.IsInf(entry.Amount, 0) {
		return apperrors.NewValidationError("Значение должно быть числом").WithContext("kind", entry.Kind)
	}
	if entry.Kind == domain.KindWater && entry.Amount <= 0 {
		return apperrors.NewValidationError("Количество воды должно быть положительным числом").WithContext("amount", entry.Amount)
	}
	if entry.Amount < 0 {
		return apperrors.NewValidationError("Значение не может быть отрицательным").WithContext("amount", entry.Amount)
	}
	return nil
}

// AppendEvent records entry and adds its amount to the matching daily total.
// An entry whose RequestID was already recorded is returned as stored and
// the totals are left untouched.
func (s *LedgerService) AppendEvent(ctx context.Context, entry domain.LogEntry) (*domain.LogEntry, error) {
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	now := s.now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}

	var stored *domain.LogEntry
	err := s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		profile, err := tx.GetProfile(ctx, entry.UserID)
		if err != nil {
			return err
		}
		if err := rollover(ctx, tx, profile, now); err != nil {
			return err
		}

		if entry.RequestID != "" {
			existing, err := tx.FindLogEntry(ctx, entry.UserID, entry.RequestID)
			if err != nil {
				return err
			}
			if existing != nil {
				logger.WithContext(ctx).Info("Duplicate log request ignored",
					"user_id", entry.UserID,
					"request_id", entry.RequestID,
				)
				stored = existing
				return nil
			}
		}

		if err := tx.AppendLogEntry(ctx, &entry); err != nil {
			return err
		}
		if err := tx.AddToTotal(ctx, entry.UserID, entry.Kind, entry.Amount); err != nil {
			return err
		}
		stored = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// GetDailyStats returns today's totals, goals and per-kind summaries.
// Without a profile it returns zero stats together with a not found error.
func (s *LedgerService) GetDailyStats(ctx context.Context, userID int64) (domain.DailyStats, error) {
	now := s.now()
	stats := domain.DailyStats{UserID: userID, Date: utils.DateOf(now)}

	err := s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		profile, err := tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if err := rollover(ctx, tx, profile, now); err != nil {
			return err
		}

		from, to := utils.DayBounds(now)
		sums, err := tx.SumByKind(ctx, userID, from, to)
		if err != nil {
			return err
		}

		stats.WaterDrunk = profile.WaterDrunk
		stats.CaloriesEaten = profile.CaloriesEaten
		stats.CaloriesBurned = profile.CaloriesBurned
		stats.WaterGoal = profile.WaterGoal
		stats.CalorieGoal = profile.CalorieGoal
		stats.Water = sums[domain.KindWater]
		stats.Food = sums[domain.KindFood]
		stats.Workout = sums[domain.KindWorkout]
		return nil
	})
	if err != nil {
		return domain.DailyStats{UserID: userID, Date: utils.DateOf(now)}, err
	}
	return stats, nil
}

// Reset deletes every entry of the user and zeroes the totals.
// Resetting a user without a profile succeeds and does nothing.
func (s *LedgerService) Reset(ctx context.Context, userID int64) error {
	today := utils.DateOf(s.now())

	return s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		if _, err := tx.GetProfile(ctx, userID); err != nil {
			if apperrors.TypeOf(err) == apperrors.ErrorTypeNotFound {
				return nil
			}
			return err
		}
		if err := tx.DeleteLogEntries(ctx, userID); err != nil {
			return err
		}
		return tx.ResetTotals(ctx, userID, today)
	})
}

// History returns the entries of the last days calendar days, newest first.
// Zero days selects DefaultHistoryDays; larger windows are capped at
// MaxHistoryDays.
func (s *LedgerService) History(ctx context.Context, userID int64, days int) ([]domain.LogEntry, error) {
	switch {
	case days == 0:
		days = DefaultHistoryDays
	case days < 0:
		return nil, apperrors.NewValidationError("Количество дней должно быть положительным").WithContext("days", days)
	case days > MaxHistoryDays:
		days = MaxHistoryDays
	}

	start, _ := utils.DayBounds(s.now())
	from := start.AddDate(0, 0, -(days - 1))

	var entries []domain.LogEntry
	err := s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		if _, err := tx.GetProfile(ctx, userID); err != nil {
			return err
		}
		var err error
		entries, err = tx.ListLogEntries(ctx, userID, from)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Profile returns the user's profile with today's totals
func (s *LedgerService) Profile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	now := s.now()

	var profile *domain.UserProfile
	err := s.store.Transaction(ctx, func(tx domain.StoreTx) error {
		var err error
		profile, err = tx.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		return rollover(ctx, tx, profile, now)
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}
