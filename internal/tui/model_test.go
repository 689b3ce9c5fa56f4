package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
)

var tuiNow = time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

func tuiClock() time.Time { return tuiNow.Add(time.Hour) }

// tuiSnapshot builds a two column board: To Do holds c1 and c2, Doing holds
// c3 under a WIP limit of one.
func tuiSnapshot(t *testing.T) board.Snapshot {
	t.Helper()

	colA, err := domain.NewColumn("A", "To Do", 0, 0, tuiNow)
	if err != nil {
		t.Fatalf("NewColumn(A) error = %v", err)
	}
	colB, err := domain.NewColumn("B", "Doing", 1, 1, tuiNow)
	if err != nil {
		t.Fatalf("NewColumn(B) error = %v", err)
	}

	snap := board.Snapshot{Columns: []domain.Column{colA, colB}}
	inputs := []domain.CardInput{
		{ID: "c1", ColumnID: "A", Order: 0, Title: "Write docs", Description: "# Notes\n\nCover the move API."},
		{ID: "c2", ColumnID: "A", Order: 1, Title: "Fix flaky test"},
		{ID: "c3", ColumnID: "B", Order: 0, Title: "Ship release"},
	}
	for _, in := range inputs {
		card, err := domain.NewCard(in, tuiNow)
		if err != nil {
			t.Fatalf("NewCard(%s) error = %v", in.ID, err)
		}
		snap.Cards = append(snap.Cards, card)
	}
	return snap
}

func newTestModel(t *testing.T, snap board.Snapshot, opts board.Options) (Model, *board.Store) {
	t.Helper()
	store := board.NewStore(snap)
	controller := board.NewController(store, board.NewNotifier(), tuiClock, nil, opts)
	m := NewModel(store, controller, WithGates(opts))
	return applyMsg(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}), store
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want tui.Model", updated)
	}
	return next
}

func press(t *testing.T, m Model, keys ...rune) Model {
	t.Helper()
	for _, r := range keys {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

func pressEnter(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
}

func pressEsc(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
}

func render(m Model) string {
	return fmt.Sprint(m.View().Content)
}

func TestModelQuitKey(t *testing.T) {
	m, _ := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestModelCursorNavigation(t *testing.T) {
	m, _ := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, 'j')
	if m.selectedColumn != 0 || m.selectedRow != 1 {
		t.Fatalf("cursor = (%d,%d), want (0,1)", m.selectedColumn, m.selectedRow)
	}

	m = press(t, m, 'l')
	if m.selectedColumn != 1 || m.selectedRow != 0 {
		t.Fatalf("cursor = (%d,%d), want (1,0)", m.selectedColumn, m.selectedRow)
	}

	// Doing has a single card; the cursor must not run past it.
	m = press(t, m, 'j', 'j')
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}

	m = press(t, m, 'h')
	if m.selectedColumn != 0 {
		t.Fatalf("selectedColumn = %d, want 0", m.selectedColumn)
	}
}

func TestModelDragCommitsCardMove(t *testing.T) {
	m, store := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, ' ', 'l')
	m = pressEnter(t, m)

	if got := m.controller.Phase(); got != board.PhaseIdle {
		t.Fatalf("phase after drop = %s, want idle", got)
	}
	card, ok := store.Snapshot().FindCard("c1")
	if !ok || card.ColumnID != "B" || card.Order != 0 {
		t.Fatalf("unexpected card after drop %+v", card)
	}
	if !strings.Contains(m.status, "moved c1") {
		t.Fatalf("status = %q, want moved c1", m.status)
	}
	// The cursor follows the committed card.
	if m.selectedColumn != 1 {
		t.Fatalf("selectedColumn = %d, want 1", m.selectedColumn)
	}
}

func TestModelImmediateDropIsNoOp(t *testing.T) {
	m, store := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())
	before := store.Snapshot()

	m = press(t, m, ' ')
	if got := m.controller.Phase(); got != board.PhaseTargeting {
		t.Fatalf("phase after grab = %s, want targeting", got)
	}
	m = pressEnter(t, m)

	if got := m.controller.Phase(); got != board.PhaseIdle {
		t.Fatalf("phase = %s, want idle", got)
	}
	if m.status != "drop had no effect" {
		t.Fatalf("status = %q", m.status)
	}
	after := store.Snapshot()
	if len(after.Cards) != len(before.Cards) {
		t.Fatalf("card count changed: %d -> %d", len(before.Cards), len(after.Cards))
	}
	card, _ := after.FindCard("c1")
	if card.ColumnID != "A" || card.Order != 0 {
		t.Fatalf("card moved on no-op drop %+v", card)
	}
}

func TestModelCancelLeavesBoardUntouched(t *testing.T) {
	m, store := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, ' ', 'l', 'j')
	m = pressEsc(t, m)

	if got := m.controller.Phase(); got != board.PhaseIdle {
		t.Fatalf("phase = %s, want idle", got)
	}
	if m.status != "drag cancelled" {
		t.Fatalf("status = %q", m.status)
	}
	card, _ := store.Snapshot().FindCard("c1")
	if card.ColumnID != "A" || card.Order != 0 {
		t.Fatalf("cancel changed the card %+v", card)
	}
}

func TestModelGrabRefusedWhenDragDisabled(t *testing.T) {
	opts := board.DefaultOptions()
	opts.EnableDragDrop = false
	m, _ := newTestModel(t, tuiSnapshot(t), opts)

	m = press(t, m, ' ')
	if got := m.controller.Phase(); got != board.PhaseIdle {
		t.Fatalf("phase = %s, want idle", got)
	}
	if !strings.Contains(m.status, "cannot grab") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestModelColumnDragReorders(t *testing.T) {
	m, store := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, 'g', 'l')
	m = pressEnter(t, m)

	columns := store.Snapshot().SortedColumns()
	if columns[0].ID != "B" || columns[1].ID != "A" {
		t.Fatalf("unexpected column order %s, %s", columns[0].ID, columns[1].ID)
	}
	if m.selectedColumn != 1 {
		t.Fatalf("selectedColumn = %d, want 1", m.selectedColumn)
	}
}

func TestModelLaneTargeting(t *testing.T) {
	snap := tuiSnapshot(t)
	lane, err := domain.NewSwimlane("team-a", "Team A", 0, tuiNow)
	if err != nil {
		t.Fatalf("NewSwimlane() error = %v", err)
	}
	snap.Swimlanes = []domain.Swimlane{lane}
	m, store := newTestModel(t, snap, board.DefaultOptions())

	m = press(t, m, ' ', ']')
	m = pressEnter(t, m)

	card, _ := store.Snapshot().FindCard("c1")
	if card.SwimlaneID != "team-a" || card.ColumnID != "A" || card.Order != 0 {
		t.Fatalf("unexpected card after lane drop %+v", card)
	}
}

func TestModelViewShowsWIPWarning(t *testing.T) {
	snap := tuiSnapshot(t)
	extra, err := domain.NewCard(domain.CardInput{ID: "c4", ColumnID: "B", Order: 1, Title: "Hotfix"}, tuiNow)
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	snap.Cards = append(snap.Cards, extra)
	m, _ := newTestModel(t, snap, board.DefaultOptions())

	rendered := render(m)
	if !strings.Contains(rendered, "WIP limit exceeded: 2/1") {
		t.Fatalf("expected WIP warning in view, got\n%s", rendered)
	}

	quiet := NewModel(m.store, m.controller, WithShowWIPWarnings(false))
	quiet = applyMsg(t, quiet, tea.WindowSizeMsg{Width: 120, Height: 40})
	if strings.Contains(render(quiet), "WIP limit exceeded") {
		t.Fatal("expected WIP warning suppressed")
	}
}

func TestModelViewMarksDropCandidate(t *testing.T) {
	m, _ := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, ' ', 'l')
	rendered := render(m)
	if !strings.Contains(rendered, "drop here") {
		t.Fatalf("expected drop marker in view, got\n%s", rendered)
	}
}

func TestModelCardInfoOverlay(t *testing.T) {
	m, _ := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = press(t, m, 'i')
	if !m.showCardInfo {
		t.Fatal("expected card info open")
	}
	if rendered := render(m); !strings.Contains(rendered, "Write docs") {
		t.Fatalf("expected card title in overlay, got\n%s", rendered)
	}

	m = pressEsc(t, m)
	if m.showCardInfo {
		t.Fatal("expected card info closed")
	}
}

func TestModelViewBeforeWindowSize(t *testing.T) {
	store := board.NewStore(tuiSnapshot(t))
	controller := board.NewController(store, board.NewNotifier(), tuiClock, nil, board.DefaultOptions())
	m := NewModel(store, controller)
	if rendered := render(m); !strings.Contains(rendered, "loading") {
		t.Fatalf("expected loading placeholder, got %q", rendered)
	}
}

func TestModelMouseWheelMovesSelection(t *testing.T) {
	m, _ := newTestModel(t, tuiSnapshot(t), board.DefaultOptions())

	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelDown})
	if m.selectedRow != 1 {
		t.Fatalf("selectedRow = %d, want 1", m.selectedRow)
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{Button: tea.MouseWheelUp})
	if m.selectedRow != 0 {
		t.Fatalf("selectedRow = %d, want 0", m.selectedRow)
	}
}
