package domain

import (
	"slices"
	"strings"
	"time"
)

// Card is one draggable work item. Title, Description, and Labels are opaque
// payload: the board engine carries them but never interprets them.
type Card struct {
	ID          string
	ColumnID    string
	SwimlaneID  string
	Order       int
	Title       string
	Description string
	Labels      []string
	Locked      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CardInput holds input values for new cards.
type CardInput struct {
	ID          string
	ColumnID    string
	SwimlaneID  string
	Order       int
	Title       string
	Description string
	Labels      []string
	Locked      bool
}

// NewCard constructs a new value for this package.
func NewCard(in CardInput, now time.Time) (Card, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.SwimlaneID = strings.TrimSpace(in.SwimlaneID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.ID == "" {
		return Card{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Card{}, ErrInvalidColumnID
	}
	if in.Title == "" {
		return Card{}, ErrInvalidTitle
	}
	if in.Order < 0 {
		return Card{}, ErrInvalidOrder
	}

	return Card{
		ID:          in.ID,
		ColumnID:    in.ColumnID,
		SwimlaneID:  in.SwimlaneID,
		Order:       in.Order,
		Title:       in.Title,
		Description: in.Description,
		Labels:      normalizeLabels(in.Labels),
		Locked:      in.Locked,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// Group returns the card's current group key.
func (c Card) Group() GroupKey {
	return GroupKey{ColumnID: c.ColumnID, SwimlaneID: c.SwimlaneID}
}

// Relocate reassigns the card's group membership and display order.
func (c *Card) Relocate(group GroupKey, order int, now time.Time) error {
	group.ColumnID = strings.TrimSpace(group.ColumnID)
	group.SwimlaneID = strings.TrimSpace(group.SwimlaneID)
	if group.ColumnID == "" {
		return ErrInvalidColumnID
	}
	if order < 0 {
		return ErrInvalidOrder
	}
	c.ColumnID = group.ColumnID
	c.SwimlaneID = group.SwimlaneID
	c.Order = order
	c.UpdatedAt = now.UTC()
	return nil
}

// UpdateDetails replaces the opaque payload fields.
func (c *Card) UpdateDetails(title, description string, labels []string, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	c.Title = title
	c.Description = strings.TrimSpace(description)
	c.Labels = normalizeLabels(labels)
	c.UpdatedAt = now.UTC()
	return nil
}

// SetLocked toggles the per-card drag gate.
func (c *Card) SetLocked(locked bool, now time.Time) {
	c.Locked = locked
	c.UpdatedAt = now.UTC()
}

func normalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := map[string]struct{}{}
	for _, raw := range labels {
		label := strings.ToLower(strings.TrimSpace(raw))
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	slices.Sort(out)
	return out
}
