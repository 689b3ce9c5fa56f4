package board

import (
	"time"

	"github.com/hylla/flytta/internal/domain"
)

// ResolveCardMove computes the collections that result from relocating one
// card to an index within a target group. The returned bool reports whether
// anything changed: unknown card or target column ids and same-group moves to
// the current index all return the input snapshot untouched. Stale references
// are silent no-ops, never failures.
func ResolveCardMove(snap Snapshot, cardID string, to domain.GroupKey, index int, now time.Time) (Snapshot, domain.MoveEvent, bool) {
	card, ok := snap.FindCard(cardID)
	if !ok {
		return snap, domain.MoveEvent{}, false
	}
	if _, ok := snap.FindColumn(to.ColumnID); !ok {
		return snap, domain.MoveEvent{}, false
	}

	from := card.Group()
	fromIndex := cardIndexInGroup(snap, card)

	target := excludeCard(snap.CardsInGroup(to), cardID)
	toIndex := clamp(index, 0, len(target))
	if from == to && toIndex == fromIndex {
		return snap, domain.MoveEvent{}, false
	}

	moved := card
	if err := moved.Relocate(to, toIndex, now); err != nil {
		return snap, domain.MoveEvent{}, false
	}

	updated := map[string]domain.Card{moved.ID: moved}
	renumberAround(target, moved, toIndex, updated)
	if from != to {
		renumber(excludeCard(snap.CardsInGroup(from), cardID), updated)
	}

	out := snap.Clone()
	for i, existing := range out.Cards {
		if replacement, ok := updated[existing.ID]; ok {
			out.Cards[i] = replacement
		}
	}

	event := domain.MoveEvent{
		SubjectID: cardID,
		Kind:      domain.SubjectCard,
		From:      from,
		To:        to,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
	}
	return out, event, true
}

// ResolveColumnMove computes the collections that result from relocating one
// column to a target index in the board-wide column order. Same no-op rules
// as ResolveCardMove.
func ResolveColumnMove(snap Snapshot, columnID string, index int, now time.Time) (Snapshot, domain.MoveEvent, bool) {
	if _, ok := snap.FindColumn(columnID); !ok {
		return snap, domain.MoveEvent{}, false
	}

	sorted := snap.SortedColumns()
	fromIndex := -1
	for idx, column := range sorted {
		if column.ID == columnID {
			fromIndex = idx
			break
		}
	}

	toIndex := clamp(index, 0, len(sorted)-1)
	if toIndex == fromIndex {
		return snap, domain.MoveEvent{}, false
	}

	moved := sorted[fromIndex]
	remaining := append([]domain.Column(nil), sorted[:fromIndex]...)
	remaining = append(remaining, sorted[fromIndex+1:]...)
	reordered := append([]domain.Column(nil), remaining[:toIndex]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, remaining[toIndex:]...)

	updated := make(map[string]domain.Column, len(reordered))
	for idx, column := range reordered {
		if column.ID == columnID {
			_ = column.SetOrder(idx, now)
		} else {
			column.Order = idx
		}
		updated[column.ID] = column
	}

	out := snap.Clone()
	for i, existing := range out.Columns {
		out.Columns[i] = updated[existing.ID]
	}

	event := domain.MoveEvent{
		SubjectID: columnID,
		Kind:      domain.SubjectColumn,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
	}
	return out, event, true
}

// cardIndexInGroup returns the card's position in its group's display order.
func cardIndexInGroup(snap Snapshot, card domain.Card) int {
	for idx, existing := range snap.CardsInGroup(card.Group()) {
		if existing.ID == card.ID {
			return idx
		}
	}
	return 0
}

// excludeCard removes one card id from an ordered bucket.
func excludeCard(cards []domain.Card, cardID string) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		if card.ID == cardID {
			continue
		}
		out = append(out, card)
	}
	return out
}

// renumberAround inserts the moved card into the target bucket at toIndex and
// renumbers the bucket densely. Only the moved card keeps its refreshed
// UpdatedAt; sibling renumbering is derived bookkeeping.
func renumberAround(bucket []domain.Card, moved domain.Card, toIndex int, updated map[string]domain.Card) {
	offset := 0
	for idx, card := range bucket {
		if idx == toIndex {
			offset = 1
		}
		card.Order = idx + offset
		updated[card.ID] = card
	}
}

// renumber restores a dense zero-based sequence on an ordered bucket.
func renumber(bucket []domain.Card, updated map[string]domain.Card) {
	for idx, card := range bucket {
		card.Order = idx
		updated[card.ID] = card
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
