package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"alliance-tracker/internal/config"
	"alliance-tracker/internal/database"
	"alliance-tracker/internal/domain"

	"github.com/rs/zerolog"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "tracker.db")}
	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedWars(t *testing.T, repo *WarRepository, ids ...string) {
	t.Helper()
	now := time.Now()
	for _, id := range ids {
		war := &domain.War{
			ID:             id,
			Name:           "War " + id,
			AllianceResult: domain.ResultPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repo.Create(context.Background(), war); err != nil {
			t.Fatalf("failed to seed war %s: %v", id, err)
		}
	}
}

func listIDs(t *testing.T, repo *WarRepository) []string {
	t.Helper()
	wars, err := repo.ListOrdered(context.Background())
	if err != nil {
		t.Fatalf("failed to list wars: %v", err)
	}
	ids := make([]string, len(wars))
	for i, war := range wars {
		ids[i] = war.ID
	}
	return ids
}

func TestReorder_RewritesPositions(t *testing.T) {
	repo := NewWarRepository(newTestDB(t), zerolog.Nop())
	seedWars(t, repo, "w1", "w2", "w3")

	if err := repo.Reorder(context.Background(), []string{"w3", "w1", "w2"}); err != nil {
		t.Fatalf("reorder failed: %v", err)
	}

	got := listIDs(t, repo)
	want := []string{"w3", "w1", "w2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d should be %s, got %s (full order %v)", i+1, want[i], got[i], got)
		}
	}
}

func TestReorder_RejectsPartialList(t *testing.T) {
	repo := NewWarRepository(newTestDB(t), zerolog.Nop())
	seedWars(t, repo, "w1", "w2", "w3")

	err := repo.Reorder(context.Background(), []string{"w3", "w1"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("partial order should be rejected, got %v", err)
	}

	got := listIDs(t, repo)
	if got[0] != "w1" || got[1] != "w2" || got[2] != "w3" {
		t.Fatalf("rejected reorder must not change positions, got %v", got)
	}
}

func TestReorder_RejectsUnknownID(t *testing.T) {
	repo := NewWarRepository(newTestDB(t), zerolog.Nop())
	seedWars(t, repo, "w1", "w2")

	err := repo.Reorder(context.Background(), []string{"w1", "ghost"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("unknown id should be rejected, got %v", err)
	}
}

func TestReorder_RejectsDuplicateID(t *testing.T) {
	repo := NewWarRepository(newTestDB(t), zerolog.Nop())
	seedWars(t, repo, "w1", "w2")

	err := repo.Reorder(context.Background(), []string{"w1", "w1"})
	if !errors.Is(err, ErrInvalidOrder) {
		t.Fatalf("duplicate id should be rejected, got %v", err)
	}
}

func TestCreate_AppendsToSeason(t *testing.T) {
	repo := NewWarRepository(newTestDB(t), zerolog.Nop())
	seedWars(t, repo, "w1", "w2")

	got := listIDs(t, repo)
	if len(got) != 2 || got[0] != "w1" || got[1] != "w2" {
		t.Fatalf("creation order should define the season order, got %v", got)
	}
}
