package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/database"
	"github.com/vladimiradmaev/health-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/health-tracker/internal/errors"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return NewStore(db)
}

func stores(t *testing.T) map[string]domain.Store {
	return map[string]domain.Store{
		"memory": NewMemoryStore(),
		"sqlite": newSQLiteStore(t),
	}
}

var day = time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

func testProfile(userID int64) *domain.UserProfile {
	return &domain.UserProfile{
		UserID:        userID,
		Weight:        70,
		Height:        175,
		Age:           30,
		Activity:      45,
		City:          "Москва",
		WaterGoal:     2600,
		CalorieGoal:   2350,
		LastResetDate: day,
	}
}

func TestStoreProfileRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				_, err := tx.GetProfile(ctx, 1)
				return err
			})
			if !errors.Is(err, apperrors.ErrProfileNotFound) {
				t.Fatalf("GetProfile on empty store = %v, want ErrProfileNotFound", err)
			}

			if err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				return tx.SaveProfile(ctx, testProfile(1))
			}); err != nil {
				t.Fatalf("SaveProfile: %v", err)
			}

			updated := testProfile(1)
			updated.City = "Казань"
			updated.WaterGoal = 2100
			if err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				return tx.SaveProfile(ctx, updated)
			}); err != nil {
				t.Fatalf("SaveProfile update: %v", err)
			}

			var got *domain.UserProfile
			if err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				var err error
				got, err = tx.GetProfile(ctx, 1)
				return err
			}); err != nil {
				t.Fatalf("GetProfile: %v", err)
			}
			if got.City != "Казань" || got.WaterGoal != 2100 || got.CalorieGoal != 2350 {
				t.Errorf("profile not updated: %+v", got)
			}
			if !got.LastResetDate.Equal(day) {
				t.Errorf("LastResetDate = %v, want %v", got.LastResetDate, day)
			}
		})
	}
}

func TestStoreLedger(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			at := day.Add(9 * time.Hour)

			err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				if err := tx.SaveProfile(ctx, testProfile(7)); err != nil {
					return err
				}
				for i, e := range []domain.LogEntry{
					{UserID: 7, Kind: domain.KindWater, Amount: 500, RequestID: "1"},
					{UserID: 7, Kind: domain.KindWater, Amount: 250, RequestID: "2"},
					{UserID: 7, Kind: domain.KindFood, Label: "банан", Amount: 96, RequestID: "3"},
				} {
					e := e
					e.CreatedAt = at.Add(time.Duration(i) * time.Minute)
					if err := tx.AppendLogEntry(ctx, &e); err != nil {
						return err
					}
					if e.ID == 0 {
						t.Error("AppendLogEntry must assign an ID")
					}
					if err := tx.AddToTotal(ctx, 7, e.Kind, e.Amount); err != nil {
						return err
					}
				}
				yesterday := domain.LogEntry{UserID: 7, Kind: domain.KindWater, Amount: 1000, CreatedAt: at.Add(-24 * time.Hour)}
				return tx.AppendLogEntry(ctx, &yesterday)
			})
			if err != nil {
				t.Fatalf("append: %v", err)
			}

			err = store.Transaction(ctx, func(tx domain.StoreTx) error {
				sums, err := tx.SumByKind(ctx, 7, day, day.AddDate(0, 0, 1))
				if err != nil {
					return err
				}
				if w := sums[domain.KindWater]; w.Count != 2 || w.Total != 750 {
					t.Errorf("water summary = %+v, want 2/750", w)
				}
				if f := sums[domain.KindFood]; f.Count != 1 || f.Total != 96 {
					t.Errorf("food summary = %+v, want 1/96", f)
				}
				if _, ok := sums[domain.KindWorkout]; ok {
					t.Error("workout summary must be absent")
				}

				p, err := tx.GetProfile(ctx, 7)
				if err != nil {
					return err
				}
				if p.WaterDrunk != 750 || p.CaloriesEaten != 96 {
					t.Errorf("totals = %v/%v, want 750/96", p.WaterDrunk, p.CaloriesEaten)
				}

				found, err := tx.FindLogEntry(ctx, 7, "3")
				if err != nil {
					return err
				}
				if found == nil || found.Label != "банан" {
					t.Errorf("FindLogEntry = %+v, want the food entry", found)
				}
				missing, err := tx.FindLogEntry(ctx, 7, "404")
				if err != nil {
					return err
				}
				if missing != nil {
					t.Errorf("FindLogEntry for unknown key = %+v, want nil", missing)
				}

				list, err := tx.ListLogEntries(ctx, 7, day.AddDate(0, 0, -1))
				if err != nil {
					return err
				}
				if len(list) != 4 || list[0].RequestID != "3" || list[3].Amount != 1000 {
					t.Errorf("ListLogEntries order wrong: %+v", list)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("read: %v", err)
			}
		})
	}
}

func TestStoreResetAndDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			next := day.AddDate(0, 0, 1)

			err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				if err := tx.SaveProfile(ctx, testProfile(3)); err != nil {
					return err
				}
				e := domain.LogEntry{UserID: 3, Kind: domain.KindWorkout, Label: "бег", Amount: 280, CreatedAt: day}
				if err := tx.AppendLogEntry(ctx, &e); err != nil {
					return err
				}
				if err := tx.AddToTotal(ctx, 3, domain.KindWorkout, 280); err != nil {
					return err
				}
				if err := tx.DeleteLogEntries(ctx, 3); err != nil {
					return err
				}
				return tx.ResetTotals(ctx, 3, next)
			})
			if err != nil {
				t.Fatalf("reset: %v", err)
			}

			err = store.Transaction(ctx, func(tx domain.StoreTx) error {
				p, err := tx.GetProfile(ctx, 3)
				if err != nil {
					return err
				}
				if p.CaloriesBurned != 0 || !p.LastResetDate.Equal(next) {
					t.Errorf("profile after reset = %+v", p)
				}
				list, err := tx.ListLogEntries(ctx, 3, time.Time{})
				if err != nil {
					return err
				}
				if len(list) != 0 {
					t.Errorf("entries after delete = %d, want 0", len(list))
				}
				return nil
			})
			if err != nil {
				t.Fatalf("read: %v", err)
			}
		})
	}
}

func TestStoreRollback(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				return tx.SaveProfile(ctx, testProfile(9))
			}); err != nil {
				t.Fatalf("SaveProfile: %v", err)
			}

			boom := errors.New("boom")
			err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				e := domain.LogEntry{UserID: 9, Kind: domain.KindWater, Amount: 300, CreatedAt: day}
				if err := tx.AppendLogEntry(ctx, &e); err != nil {
					return err
				}
				if err := tx.AddToTotal(ctx, 9, domain.KindWater, 300); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("Transaction error = %v, want boom", err)
			}

			_ = store.Transaction(ctx, func(tx domain.StoreTx) error {
				p, err := tx.GetProfile(ctx, 9)
				if err != nil {
					t.Fatalf("GetProfile: %v", err)
				}
				if p.WaterDrunk != 0 {
					t.Errorf("WaterDrunk = %v after rollback, want 0", p.WaterDrunk)
				}
				list, _ := tx.ListLogEntries(ctx, 9, time.Time{})
				if len(list) != 0 {
					t.Errorf("entries after rollback = %d, want 0", len(list))
				}
				return nil
			})
		})
	}
}

func TestAddToTotalUnknownProfile(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.Transaction(ctx, func(tx domain.StoreTx) error {
				return tx.AddToTotal(ctx, 42, domain.KindWater, 100)
			})
			if !errors.Is(err, apperrors.ErrProfileNotFound) {
				t.Errorf("AddToTotal = %v, want ErrProfileNotFound", err)
			}
		})
	}
}
