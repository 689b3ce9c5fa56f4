package domain

import (
	"strings"
	"time"
)

// Swimlane is a horizontal grouping dimension orthogonal to columns.
type Swimlane struct {
	ID        string
	Name      string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSwimlane constructs a new value for this package.
func NewSwimlane(id, name string, order int, now time.Time) (Swimlane, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Swimlane{}, ErrInvalidID
	}
	if name == "" {
		name = id
	}
	if order < 0 {
		return Swimlane{}, ErrInvalidOrder
	}

	return Swimlane{
		ID:        id,
		Name:      name,
		Order:     order,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// SetOrder handles set order.
func (s *Swimlane) SetOrder(order int, now time.Time) error {
	if order < 0 {
		return ErrInvalidOrder
	}
	s.Order = order
	s.UpdatedAt = now.UTC()
	return nil
}
