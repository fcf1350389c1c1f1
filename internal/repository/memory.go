package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

// MemoryStore keeps everything in process memory. Transactions are fully
// serialized and restored from a snapshot when they fail.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[int64]domain.UserProfile
	entries  []domain.LogEntry
	nextID   uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[int64]domain.UserProfile)}
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx domain.StoreTx) error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTimeoutError("transaction")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := make(map[int64]domain.UserProfile, len(s.profiles))
	for id, p := range s.profiles {
		profiles[id] = p
	}
	entries := append([]domain.LogEntry(nil), s.entries...)
	nextID := s.nextID

	if err := fn(&memoryTx{s: s}); err != nil {
		s.profiles = profiles
		s.entries = entries
		s.nextID = nextID
		return err
	}
	return nil
}

type memoryTx struct {
	s *MemoryStore
}

func (t *memoryTx) GetProfile(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	p, ok := t.s.profiles[userID]
	if !ok {
		return nil, apperrors.NewProfileNotFoundError(userID)
	}
	return &p, nil
}

func (t *memoryTx) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	now := time.Now()
	if existing, ok := t.s.profiles[profile.UserID]; ok {
		profile.CreatedAt = existing.CreatedAt
	} else if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	t.s.profiles[profile.UserID] = *profile
	return nil
}

func (t *memoryTx) AppendLogEntry(ctx context.Context, entry *domain.LogEntry) error {
	if _, ok := t.s.profiles[entry.UserID]; !ok {
		return apperrors.NewProfileNotFoundError(entry.UserID)
	}
	t.s.nextID++
	entry.ID = t.s.nextID
	e := *entry
	e.CreatedAt = e.CreatedAt.UTC()
	t.s.entries = append(t.s.entries, e)
	return nil
}

func (t *memoryTx) FindLogEntry(ctx context.Context, userID int64, requestID string) (*domain.LogEntry, error) {
	for i := range t.s.entries {
		if e := t.s.entries[i]; e.UserID == userID && e.RequestID == requestID {
			return &e, nil
		}
	}
	return nil, nil
}

func (t *memoryTx) AddToTotal(ctx context.Context, userID int64, kind domain.EntryKind, amount float64) error {
	if !kind.Valid() {
		return apperrors.NewValidationError("unknown entry kind").WithContext("kind", kind)
	}
	p, ok := t.s.profiles[userID]
	if !ok {
		return apperrors.NewProfileNotFoundError(userID)
	}
	p.AddToTotal(kind, amount)
	t.s.profiles[userID] = p
	return nil
}

func (t *memoryTx) SumByKind(ctx context.Context, userID int64, from, to time.Time) (map[domain.EntryKind]domain.KindSummary, error) {
	sums := make(map[domain.EntryKind]domain.KindSummary)
	for _, e := range t.s.entries {
		if e.UserID != userID || e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		sum := sums[e.Kind]
		sum.Count++
		sum.Total += e.Amount
		sums[e.Kind] = sum
	}
	return sums, nil
}

func (t *memoryTx) ListLogEntries(ctx context.Context, userID int64, from time.Time) ([]domain.LogEntry, error) {
	var entries []domain.LogEntry
	for _, e := range t.s.entries {
		if e.UserID == userID && !e.CreatedAt.Before(from) {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

func (t *memoryTx) DeleteLogEntries(ctx context.Context, userID int64) error {
	kept := t.s.entries[:0:0]
	for _, e := range t.s.entries {
		if e.UserID != userID {
			kept = append(kept, e)
		}
	}
	t.s.entries = kept
	return nil
}

func (t *memoryTx) ResetTotals(ctx context.Context, userID int64, today time.Time) error {
	p, ok := t.s.profiles[userID]
	if !ok {
		return apperrors.NewProfileNotFoundError(userID)
	}
	p.ResetTotals(today)
	t.s.profiles[userID] = p
	return nil
}
