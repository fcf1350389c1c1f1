package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/database"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists profiles and ledger entries through gorm
type Store struct {
	db *gorm.DB
}

// NewStore creates a new gorm backed store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a database transaction. The transaction is
// rolled back when fn returns an error.
func (s *Store) Transaction(ctx context.Context, fn func(tx domain.StoreTx) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&storeTx{db: tx})
	})
	if err == nil {
		return nil
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewDatabaseError(err)
}

type storeTx struct {
	db *gorm.DB
}

func (t *storeTx) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	var rec database.Profile
	err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return profileFromRecord(&rec), nil
}

func (t *storeTx) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	rec := profileToRecord(profile)
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(rec).Error
	if err != nil {
		return apperrors.NewDatabaseError(err).WithContext("user_id", profile.UserID)
	}
	profile.CreatedAt = rec.CreatedAt
	profile.UpdatedAt = rec.UpdatedAt
	return nil
}

func (t *storeTx) AppendLogEntry(ctx context.Context, entry *domain.LogEntry) error {
	rec := &database.LogEntry{
		UserID:    entry.UserID,
		Kind:      string(entry.Kind),
		Label:     entry.Label,
		Amount:    entry.Amount,
		RequestID: entry.RequestID,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if err := t.db.WithContext(ctx).Create(rec).Error; err != nil {
		return apperrors.NewDatabaseError(err).WithContext("user_id", entry.UserID)
	}
	entry.ID = rec.ID
	return nil
}

func (t *storeTx) FindLogEntry(ctx context.Context, userID int64, requestID string) (*domain.LogEntry, error) {
	var recs []database.LogEntry
	err := t.db.WithContext(ctx).
		Where("user_id = ? AND request_id = ?", userID, requestID).
		Limit(1).
		Find(&recs).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	entry := entryFromRecord(&recs[0])
	return &entry, nil
}

func (t *storeTx) AddToTotal(ctx context.Context, userID int64, kind domain.EntryKind, amount float64) error {
	column, ok := totalColumns[kind]
	if !ok {
		return apperrors.NewValidationError("unknown entry kind").WithContext("kind", kind)
	}

	res := t.db.WithContext(ctx).
		Model(&database.Profile{}).
		Where("user_id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return apperrors.NewDatabaseError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewProfileNotFoundError(userID)
	}
	return nil
}

var totalColumns = map[domain.EntryKind]string{
	domain.KindWater:   "water_drunk",
	domain.KindFood:    "calories_eaten",
	domain.KindWorkout: "calories_burned",
}

type kindTotal struct {
	Kind  string
	Count int
	Total float64
}

func (t *storeTx) SumByKind(ctx context.Context, userID int64, from, to time.Time) (map[domain.EntryKind]domain.KindSummary, error) {
	var rows []kindTotal
	err := t.db.WithContext(ctx).
		Model(&database.LogEntry{}).
		Select("kind, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from.UTC(), to.UTC()).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	sums := make(map[domain.EntryKind]domain.KindSummary, len(rows))
	for _, row := range rows {
		sums[domain.EntryKind(row.Kind)] = domain.KindSummary{Count: row.Count, Total: row.Total}
	}
	return sums, nil
}

func (t *storeTx) ListLogEntries(ctx context.Context, userID int64, from time.Time) ([]domain.LogEntry, error) {
	var recs []database.LogEntry
	err := t.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, from.UTC()).
		Order("created_at DESC, id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	entries := make([]domain.LogEntry, 0, len(recs))
	for i := range recs {
		entries = append(entries, entryFromRecord(&recs[i]))
	}
	return entries, nil
}

func (t *storeTx) DeleteLogEntries(ctx context.Context, userID int64) error {
	err := t.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&database.LogEntry{}).Error
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (t *storeTx) ResetTotals(ctx context.Context, userID int64, today time.Time) error {
	res := t.db.WithContext(ctx).
		Model(&database.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"water_drunk":     0,
			"calories_eaten":  0,
			"calories_burned": 0,
			"last_reset_date": today,
		})
	if res.Error != nil {
		return apperrors.NewDatabaseError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewProfileNotFoundError(userID)
	}
	return nil
}

func profileToRecord(p *domain.UserProfile) *database.Profile {
	return &database.Profile{
		UserID:         p.UserID,
		Weight:         p.Weight,
		Height:         p.Height,
		Age:            p.Age,
		Activity:       p.Activity,
		City:           p.City,
		WaterGoal:      p.WaterGoal,
		CalorieGoal:    p.CalorieGoal,
		WaterDrunk:     p.WaterDrunk,
		CaloriesEaten:  p.CaloriesEaten,
		CaloriesBurned: p.CaloriesBurned,
		LastResetDate:  p.LastResetDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func profileFromRecord(r *database.Profile) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:         r.UserID,
		Weight:         r.Weight,
		Height:         r.Height,
		Age:            r.Age,
		Activity:       r.Activity,
		City:           r.City,
		WaterGoal:      r.WaterGoal,
		CalorieGoal:    r.CalorieGoal,
		WaterDrunk:     r.WaterDrunk,
		CaloriesEaten:  r.CaloriesEaten,
		CaloriesBurned: r.CaloriesBurned,
		LastResetDate:  r.LastResetDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func entryFromRecord(r *database.LogEntry) domain.LogEntry {
	return domain.LogEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Kind:      domain.EntryKind(r.Kind),
		Label:     r.Label,
		Amount:    r.Amount,
		RequestID: r.RequestID,
		CreatedAt: r.CreatedAt,
	}
}
