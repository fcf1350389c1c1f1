package domain

import (
	"context"
	"time"
)

// Store is the persistent record store. Every read or write runs inside a
// transaction so that rollover checks commit together with the work they guard.
type Store interface {
	Transaction(ctx context.Context, fn func(tx StoreTx) error) error
}

// StoreTx is the set of operations available inside a transaction
type StoreTx interface {
	// GetProfile loads and locks the profile row. Returns
	// errors.ErrProfileNotFound when the user has no profile.
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	SaveProfile(ctx context.Context, profile *UserProfile) error
	AppendLogEntry(ctx context.Context, entry *LogEntry) error
	// FindLogEntry returns the entry with the given replay key, or nil.
	FindLogEntry(ctx context.Context, userID int64, requestID string) (*LogEntry, error)
	AddToTotal(ctx context.Context, userID int64, kind EntryKind, amount float64) error
	SumByKind(ctx context.Context, userID int64, from, to time.Time) (map[EntryKind]KindSummary, error)
	ListLogEntries(ctx context.Context, userID int64, from time.Time) ([]LogEntry, error)
	DeleteLogEntries(ctx context.Context, userID int64) error
	ResetTotals(ctx context.Context, userID int64, today time.Time) error
}

// SessionStore keeps onboarding sessions
type SessionStore interface {
	// Get returns the session, or nil when there is none.
	Get(ctx context.Context, userID int64) (*OnboardingSession, error)
	Save(ctx context.Context, session *OnboardingSession) error
	Delete(ctx context.Context, userID int64) error
}

// TemperatureLookup resolves the current ambient temperature of a city.
// Implementations never fail; they fall back to a default value.
type TemperatureLookup interface {
	AmbientTemp(ctx context.Context, city string) float64
}
