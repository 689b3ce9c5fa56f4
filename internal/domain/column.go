package domain

import (
	"strings"
	"time"
)

// Column represents column data used by this package. WIPLimit is advisory:
// exceeding it flags the column but never blocks a move. AcceptsCards gates
// whether the column is a valid drop target.
type Column struct {
	ID           string
	Name         string
	Order        int
	WIPLimit     int
	AcceptsCards bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewColumn constructs a new value for this package. A zero wipLimit means the
// column is unlimited.
func NewColumn(id, name string, order, wipLimit int, now time.Time) (Column, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if name == "" {
		return Column{}, ErrInvalidName
	}
	if order < 0 {
		return Column{}, ErrInvalidOrder
	}
	if wipLimit < 0 {
		return Column{}, ErrInvalidOrder
	}

	return Column{
		ID:           id,
		Name:         name,
		Order:        order,
		WIPLimit:     wipLimit,
		AcceptsCards: true,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// Rename renames the requested operation.
func (c *Column) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = now.UTC()
	return nil
}

// SetOrder handles set order.
func (c *Column) SetOrder(order int, now time.Time) error {
	if order < 0 {
		return ErrInvalidOrder
	}
	c.Order = order
	c.UpdatedAt = now.UTC()
	return nil
}

// SetAcceptsCards toggles whether the column accepts dropped cards.
func (c *Column) SetAcceptsCards(accepts bool, now time.Time) {
	c.AcceptsCards = accepts
	c.UpdatedAt = now.UTC()
}
