package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jonnyb/group-order/internal/models"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("Create initializes participants and created_at", func(t *testing.T) {
		order := &models.Order{
			EntryID: "Spring Rolls_a1",
			Name:    "Abbie",
			Item:    "Spring Rolls",
			Min:     1,
			Max:     1,
			Price:   4.0,
			Status:  models.StatusSolo,
		}

		if err := repo.Create(ctx, order); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if order.CreatedAt == "" {
			t.Error("Expected CreatedAt to be set")
		}
		if len(order.Participants) != 1 || order.Participants[0] != "Abbie" {
			t.Errorf("Participants = %v, want [Abbie]", order.Participants)
		}
	})

	t.Run("Create rejects duplicate entry id", func(t *testing.T) {
		order := &models.Order{
			EntryID: "Spring Rolls_a1",
			Name:    "Michael",
			Item:    "Spring Rolls",
			Min:     1,
			Max:     1,
			Price:   4.0,
			Status:  models.StatusSolo,
		}

		if err := repo.Create(ctx, order); !errors.Is(err, ErrDuplicateEntry) {
			t.Errorf("Create error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("Get retrieves complete order", func(t *testing.T) {
		original := &models.Order{
			EntryID: "Noodles_b2",
			Name:    "Michael",
			Item:    "Noodles",
			Min:     2,
			Max:     4,
			Price:   10.0,
			Status:  models.StatusShared,
		}
		if err := repo.Create(ctx, original); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := repo.Get(ctx, "Noodles_b2")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Item != "Noodles" || got.Min != 2 || got.Max != 4 || got.Price != 10.0 {
			t.Errorf("unexpected order: %+v", got)
		}
		if got.Status != models.StatusShared {
			t.Errorf("Status = %q, want shared", got.Status)
		}
		if len(got.Participants) != 1 || got.Participants[0] != "Michael" {
			t.Errorf("Participants = %v, want [Michael]", got.Participants)
		}
	})

	t.Run("Get returns ErrOrderNotFound for unknown id", func(t *testing.T) {
		if _, err := repo.Get(ctx, "nonexistent"); !errors.Is(err, ErrOrderNotFound) {
			t.Errorf("Get error = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("AddParticipant preserves order and is idempotent", func(t *testing.T) {
		if err := repo.AddParticipant(ctx, "Noodles_b2", "Sam"); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if err := repo.AddParticipant(ctx, "Noodles_b2", "Jonny"); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		// Repeat join is a store-level no-op.
		if err := repo.AddParticipant(ctx, "Noodles_b2", "Sam"); err != nil {
			t.Fatalf("repeat AddParticipant failed: %v", err)
		}

		got, err := repo.Get(ctx, "Noodles_b2")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		want := []string{"Michael", "Sam", "Jonny"}
		if len(got.Participants) != len(want) {
			t.Fatalf("Participants = %v, want %v", got.Participants, want)
		}
		for i := range want {
			if got.Participants[i] != want[i] {
				t.Errorf("Participants[%d] = %q, want %q", i, got.Participants[i], want[i])
			}
		}
	})

	t.Run("AddParticipant rejects unknown order", func(t *testing.T) {
		if err := repo.AddParticipant(ctx, "nonexistent", "Sam"); !errors.Is(err, ErrOrderNotFound) {
			t.Errorf("AddParticipant error = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("ListByItem filters by item", func(t *testing.T) {
		orders, err := repo.ListByItem(ctx, "Noodles")
		if err != nil {
			t.Fatalf("ListByItem failed: %v", err)
		}
		if len(orders) != 1 {
			t.Fatalf("expected 1 Noodles order, got %d", len(orders))
		}
		if orders[0].EntryID != "Noodles_b2" {
			t.Errorf("EntryID = %q, want Noodles_b2", orders[0].EntryID)
		}

		orders, err = repo.ListByItem(ctx, "Dumplings")
		if err != nil {
			t.Fatalf("ListByItem failed: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("expected no Dumplings orders, got %d", len(orders))
		}
	})

	t.Run("List returns all orders with participants", func(t *testing.T) {
		orders, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(orders) != 2 {
			t.Fatalf("expected 2 orders, got %d", len(orders))
		}
		for _, order := range orders {
			if len(order.Participants) == 0 {
				t.Errorf("order %s has no participants", order.EntryID)
			}
		}
	})

	t.Run("LatestCreatedAt returns newest timestamp", func(t *testing.T) {
		latest, err := repo.LatestCreatedAt(ctx)
		if err != nil {
			t.Fatalf("LatestCreatedAt failed: %v", err)
		}
		if latest == "" {
			t.Error("expected non-empty latest created_at")
		}
	})

	t.Run("Clear removes everything", func(t *testing.T) {
		if err := repo.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}

		orders, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(orders) != 0 {
			t.Errorf("expected no orders after clear, got %d", len(orders))
		}

		latest, err := repo.LatestCreatedAt(ctx)
		if err != nil {
			t.Fatalf("LatestCreatedAt failed: %v", err)
		}
		if latest != "" {
			t.Errorf("expected empty latest created_at after clear, got %q", latest)
		}
	})
}
