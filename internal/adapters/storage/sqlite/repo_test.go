package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
)

func testBoard(t *testing.T) board.Snapshot {
	t.Helper()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	colA, err := domain.NewColumn("todo", "To Do", 0, 0, now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	colB, err := domain.NewColumn("doing", "Doing", 1, 3, now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	lane, err := domain.NewSwimlane("team-a", "Team A", 0, now)
	if err != nil {
		t.Fatalf("NewSwimlane() error = %v", err)
	}

	cards := make([]domain.Card, 0, 3)
	for _, in := range []domain.CardInput{
		{ID: "c1", ColumnID: "todo", Order: 0, Title: "Write docs", Labels: []string{"docs", "Q3"}},
		{ID: "c2", ColumnID: "todo", Order: 1, Title: "Fix login", Description: "session expiry bug"},
		{ID: "c3", ColumnID: "doing", SwimlaneID: "team-a", Order: 0, Title: "Ship release"},
	} {
		card, err := domain.NewCard(in, now)
		if err != nil {
			t.Fatalf("NewCard(%s) error = %v", in.ID, err)
		}
		cards = append(cards, card)
	}
	cards[2].Locked = true

	return board.Snapshot{
		Columns:   []domain.Column{colA, colB},
		Cards:     cards,
		Swimlanes: []domain.Swimlane{lane},
	}
}

// assertSameBoard compares two snapshots by content. Slice sequence differs
// between what callers build and what the database hands back.
func assertSameBoard(t *testing.T, got, want board.Snapshot) {
	t.Helper()
	if !reflect.DeepEqual(got.SortedColumns(), want.SortedColumns()) {
		t.Fatalf("columns mismatch:\n got %#v\nwant %#v", got.SortedColumns(), want.SortedColumns())
	}
	if !reflect.DeepEqual(got.EffectiveSwimlanes(), want.EffectiveSwimlanes()) {
		t.Fatalf("swimlanes mismatch:\n got %#v\nwant %#v", got.EffectiveSwimlanes(), want.EffectiveSwimlanes())
	}
	if len(got.Cards) != len(want.Cards) {
		t.Fatalf("card count %d, want %d", len(got.Cards), len(want.Cards))
	}
	for _, card := range want.Cards {
		loaded, ok := got.FindCard(card.ID)
		if !ok {
			t.Fatalf("card %s missing after load", card.ID)
		}
		if !reflect.DeepEqual(loaded, card) {
			t.Fatalf("card %s mismatch:\n got %#v\nwant %#v", card.ID, loaded, card)
		}
	}
}

func TestRepository_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(filepath.Join(t.TempDir(), "flytta.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	empty, err := repo.Empty(ctx)
	if err != nil {
		t.Fatalf("Empty() error = %v", err)
	}
	if !empty {
		t.Fatal("expected fresh database to be empty")
	}

	saved := testBoard(t)
	if err := repo.SaveSnapshot(ctx, saved); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	assertSameBoard(t, loaded, saved)

	empty, err = repo.Empty(ctx)
	if err != nil {
		t.Fatalf("Empty() error = %v", err)
	}
	if empty {
		t.Fatal("expected populated database to be non-empty")
	}
}

func TestRepository_SaveSnapshotIsWholesale(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(filepath.Join(t.TempDir(), "flytta.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	first := testBoard(t)
	if err := repo.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	// Drop one card and one column; the stale rows must not survive.
	second := first.Clone()
	second.Cards = second.Cards[:1]
	second.Columns = second.Columns[:1]
	second.Swimlanes = nil
	if err := repo.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(loaded.Cards) != 1 || loaded.Cards[0].ID != "c1" {
		t.Fatalf("unexpected cards after replace: %#v", loaded.Cards)
	}
	if len(loaded.Columns) != 1 || len(loaded.Swimlanes) != 0 {
		t.Fatalf("expected replaced column/lane sets, got %d columns and %d lanes", len(loaded.Columns), len(loaded.Swimlanes))
	}
}

func TestRepository_LoadNormalizesCorruptedPositions(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(filepath.Join(t.TempDir(), "flytta.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	snap := testBoard(t)
	snap.Cards[0].Order = 9
	snap.Cards[1].Order = 9
	if err := repo.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	group := loaded.CardsInGroup(domain.GroupKey{ColumnID: "todo"})
	for idx, card := range group {
		if card.Order != idx {
			t.Fatalf("card %s order %d, want %d", card.ID, card.Order, idx)
		}
	}
}

func TestRepository_LoadEmptyBoard(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "flytta.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	loaded, err := repo.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(loaded.Columns) != 0 || len(loaded.Cards) != 0 || len(loaded.Swimlanes) != 0 {
		t.Fatalf("expected empty board, got %#v", loaded)
	}
}

func TestRepository_MigrateIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "flytta.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	snap := testBoard(t)
	if err := repo.SaveSnapshot(context.Background(), snap); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	loaded, err := reopened.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	assertSameBoard(t, loaded, snap)
}

func TestRepositoryOpenValidation(t *testing.T) {
	if _, err := Open("   "); err == nil {
		t.Fatal("expected error for blank path")
	}
}
