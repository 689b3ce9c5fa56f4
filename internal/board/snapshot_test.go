package board

import (
	"reflect"
	"testing"
	"time"

	"github.com/hylla/flytta/internal/domain"
)

func TestCardsInGroupIsPureProjection(t *testing.T) {
	snap := testSnapshot(t)
	group := domain.GroupKey{ColumnID: "A"}

	first := snap.CardsInGroup(group)
	second := snap.CardsInGroup(group)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated projection must return equal results")
	}
	if got := cardIDs(first); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("unexpected sequence %v", got)
	}

	// Mutating the returned slice must not leak into later projections.
	first[0].Title = "tampered"
	if snap.CardsInGroup(group)[0].Title == "tampered" {
		t.Fatal("projection leaked shared state")
	}
}

func TestCardsInColumnSpansSwimlanes(t *testing.T) {
	snap := testSnapshot(t)
	laneCard, err := domain.NewCard(domain.CardInput{
		ID: "c4", ColumnID: "A", SwimlaneID: "team-a", Order: 0, Title: "laned",
	}, testNow)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	snap.Cards = append(snap.Cards, laneCard)

	if got := len(snap.CardsInColumn("A")); got != 3 {
		t.Fatalf("expected 3 cards in column A, got %d", got)
	}
	if got := len(snap.CardsInGroup(domain.GroupKey{ColumnID: "A"})); got != 2 {
		t.Fatalf("expected 2 cards in unlaned group, got %d", got)
	}
}

func TestIsOverLimit(t *testing.T) {
	snap := testSnapshot(t)

	// Column A has two cards and no limit.
	if snap.IsOverLimit("A") {
		t.Fatal("unlimited column must never be over limit")
	}

	for i := range snap.Columns {
		if snap.Columns[i].ID == "A" {
			snap.Columns[i].WIPLimit = 2
		}
	}
	if snap.IsOverLimit("A") {
		t.Fatal("column at its limit is not over it")
	}

	for i := range snap.Columns {
		if snap.Columns[i].ID == "A" {
			snap.Columns[i].WIPLimit = 1
		}
	}
	if !snap.IsOverLimit("A") {
		t.Fatal("expected column A over limit")
	}
	if snap.IsOverLimit("ghost") {
		t.Fatal("unknown column must not report over limit")
	}
}

func TestFindLookupsNeverFail(t *testing.T) {
	snap := testSnapshot(t)

	if _, ok := snap.FindCard("c1"); !ok {
		t.Fatal("expected c1")
	}
	if _, ok := snap.FindCard("ghost"); ok {
		t.Fatal("unexpected ghost card")
	}
	if _, ok := snap.FindColumn("B"); !ok {
		t.Fatal("expected column B")
	}
	if _, ok := snap.FindColumn("ghost"); ok {
		t.Fatal("unexpected ghost column")
	}
	if _, ok := snap.FindSwimlane("ghost"); ok {
		t.Fatal("unexpected ghost swimlane")
	}
}

func TestEffectiveSwimlanesDerivedByFirstAppearance(t *testing.T) {
	snap := testSnapshot(t)
	for idx, laneID := range []string{"beta", "alpha", "beta"} {
		card, err := domain.NewCard(domain.CardInput{
			ID: "lane-card-" + laneID + string(rune('0'+idx)), ColumnID: "A",
			SwimlaneID: laneID, Order: idx, Title: "x",
		}, testNow)
		if err != nil {
			t.Fatalf("NewCard() error = %v", err)
		}
		snap.Cards = append(snap.Cards, card)
	}

	lanes := snap.EffectiveSwimlanes()
	if len(lanes) != 2 || lanes[0].ID != "beta" || lanes[1].ID != "alpha" {
		t.Fatalf("unexpected derived lanes %v", lanes)
	}
	if lanes[0].Order != 0 || lanes[1].Order != 1 {
		t.Fatalf("expected dense derived lane orders, got %d and %d", lanes[0].Order, lanes[1].Order)
	}

	explicit, err := domain.NewSwimlane("zeta", "Zeta", 0, testNow)
	if err != nil {
		t.Fatalf("NewSwimlane() error = %v", err)
	}
	snap.Swimlanes = []domain.Swimlane{explicit}
	lanes = snap.EffectiveSwimlanes()
	if len(lanes) != 1 || lanes[0].ID != "zeta" {
		t.Fatalf("explicit lanes must win, got %v", lanes)
	}
	if _, ok := snap.FindSwimlane("zeta"); !ok {
		t.Fatal("expected explicit lane lookup to succeed")
	}
}

func TestNormalizedRestoresDenseOrders(t *testing.T) {
	snap := testSnapshot(t)
	// Corrupt orders the way an external host might: gaps and duplicates.
	for i := range snap.Cards {
		switch snap.Cards[i].ID {
		case "c1":
			snap.Cards[i].Order = 7
		case "c2":
			snap.Cards[i].Order = 7
		case "c3":
			snap.Cards[i].Order = 3
		}
	}
	for i := range snap.Columns {
		snap.Columns[i].Order += 5
	}

	normalized := snap.Normalized()
	assertDense(t, normalized)
	sorted := normalized.SortedColumns()
	for idx, column := range sorted {
		if column.Order != idx {
			t.Fatalf("column %s order %d, want %d", column.ID, column.Order, idx)
		}
	}
}

func TestStoreReplaceIsWholesale(t *testing.T) {
	store := NewStore(testSnapshot(t))

	before := store.Snapshot()
	next, _, changed := ResolveCardMove(before, "c1", domain.GroupKey{ColumnID: "B"}, 0, testNow.Add(time.Minute))
	if !changed {
		t.Fatal("expected move to change the board")
	}
	store.Replace(next)

	// The previously emitted snapshot is untouched by the replacement.
	if got := cardIDs(before.CardsInGroup(domain.GroupKey{ColumnID: "A"})); !reflect.DeepEqual(got, []string{"c1", "c2"}) {
		t.Fatalf("emitted snapshot mutated: %v", got)
	}
	if got := cardIDs(store.Snapshot().CardsInGroup(domain.GroupKey{ColumnID: "B"})); !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Fatalf("store not replaced: %v", got)
	}
}
