package board

import (
	"slices"
	"strings"

	"github.com/hylla/flytta/internal/domain"
)

// Snapshot holds one immutable view of the board collections. Sequence inside
// the slices carries no display meaning; only Order within a group does.
type Snapshot struct {
	Columns   []domain.Column
	Cards     []domain.Card
	Swimlanes []domain.Swimlane
}

// Clone returns an independent copy of the snapshot collections.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Columns:   append([]domain.Column(nil), s.Columns...),
		Cards:     append([]domain.Card(nil), s.Cards...),
		Swimlanes: append([]domain.Swimlane(nil), s.Swimlanes...),
	}
}

// SortedColumns returns the columns ordered by display position.
func (s Snapshot) SortedColumns() []domain.Column {
	columns := append([]domain.Column(nil), s.Columns...)
	slices.SortFunc(columns, func(a, b domain.Column) int {
		if a.Order == b.Order {
			return strings.Compare(a.ID, b.ID)
		}
		return a.Order - b.Order
	})
	return columns
}

// CardsInGroup returns the cards of one (column, swimlane) group sorted
// ascending by Order. Pure projection: equal inputs produce equal results.
func (s Snapshot) CardsInGroup(group domain.GroupKey) []domain.Card {
	cards := make([]domain.Card, 0)
	for _, card := range s.Cards {
		if card.Group() == group {
			cards = append(cards, card)
		}
	}
	sortCardsByOrder(cards)
	return cards
}

// CardsInColumn returns all cards of one column across swimlanes, sorted
// ascending by Order.
func (s Snapshot) CardsInColumn(columnID string) []domain.Card {
	cards := make([]domain.Card, 0)
	for _, card := range s.Cards {
		if card.ColumnID == columnID {
			cards = append(cards, card)
		}
	}
	sortCardsByOrder(cards)
	return cards
}

// IsOverLimit reports whether the column has an advisory WIP limit and its
// card count exceeds it. It never blocks a move.
func (s Snapshot) IsOverLimit(columnID string) bool {
	column, ok := s.FindColumn(columnID)
	if !ok || column.WIPLimit <= 0 {
		return false
	}
	count := 0
	for _, card := range s.Cards {
		if card.ColumnID == columnID {
			count++
		}
	}
	return count > column.WIPLimit
}

// FindCard looks up one card by id.
func (s Snapshot) FindCard(id string) (domain.Card, bool) {
	for _, card := range s.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return domain.Card{}, false
}

// FindColumn looks up one column by id.
func (s Snapshot) FindColumn(id string) (domain.Column, bool) {
	for _, column := range s.Columns {
		if column.ID == id {
			return column, true
		}
	}
	return domain.Column{}, false
}

// FindSwimlane looks up one swimlane by id among the effective lanes.
func (s Snapshot) FindSwimlane(id string) (domain.Swimlane, bool) {
	for _, lane := range s.EffectiveSwimlanes() {
		if lane.ID == id {
			return lane, true
		}
	}
	return domain.Swimlane{}, false
}

// EffectiveSwimlanes returns the explicit lanes sorted by Order, or, when the
// host supplied none, an implicit list derived from the distinct swimlane ids
// present on cards ordered by first appearance.
func (s Snapshot) EffectiveSwimlanes() []domain.Swimlane {
	if len(s.Swimlanes) > 0 {
		lanes := append([]domain.Swimlane(nil), s.Swimlanes...)
		slices.SortFunc(lanes, func(a, b domain.Swimlane) int {
			if a.Order == b.Order {
				return strings.Compare(a.ID, b.ID)
			}
			return a.Order - b.Order
		})
		return lanes
	}

	lanes := make([]domain.Swimlane, 0)
	seen := map[string]struct{}{}
	for _, card := range s.Cards {
		if card.SwimlaneID == "" {
			continue
		}
		if _, ok := seen[card.SwimlaneID]; ok {
			continue
		}
		seen[card.SwimlaneID] = struct{}{}
		lanes = append(lanes, domain.Swimlane{
			ID:    card.SwimlaneID,
			Name:  card.SwimlaneID,
			Order: len(lanes),
		})
	}
	return lanes
}

// Normalized returns a snapshot with dense zero-based Order sequences restored
// for every group and for the column list. Hosts loading externally produced
// collections run this once before handing them to a Store.
func (s Snapshot) Normalized() Snapshot {
	out := s.Clone()

	columns := out.SortedColumns()
	columnOrder := make(map[string]int, len(columns))
	for idx, column := range columns {
		columnOrder[column.ID] = idx
	}
	for i := range out.Columns {
		out.Columns[i].Order = columnOrder[out.Columns[i].ID]
	}

	groups := map[domain.GroupKey][]int{}
	for idx, card := range out.Cards {
		groups[card.Group()] = append(groups[card.Group()], idx)
	}
	for _, indexes := range groups {
		slices.SortStableFunc(indexes, func(a, b int) int {
			ca, cb := out.Cards[a], out.Cards[b]
			if ca.Order == cb.Order {
				return strings.Compare(ca.ID, cb.ID)
			}
			return ca.Order - cb.Order
		})
		for pos, idx := range indexes {
			out.Cards[idx].Order = pos
		}
	}
	return out
}

// sortCardsByOrder sorts cards ascending by Order with id tie-break.
func sortCardsByOrder(cards []domain.Card) {
	slices.SortFunc(cards, func(a, b domain.Card) int {
		if a.Order == b.Order {
			return strings.Compare(a.ID, b.ID)
		}
		return a.Order - b.Order
	})
}
