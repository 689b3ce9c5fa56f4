// Package common defines the transport-facing board service contract shared
// by the REST and MCP adapters.
package common

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRequest and related errors classify adapter failures for
// transport-level status mapping.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrNotFound           = errors.New("not found")
	ErrServiceUnavailable = errors.New("board service unavailable")
)

// Board is the wire form of one full board snapshot.
type Board struct {
	Columns   []Column   `json:"columns"`
	Swimlanes []Swimlane `json:"swimlanes"`
	Cards     []Card     `json:"cards"`
}

// Column is the wire form of one board column.
type Column struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	WIPLimit     int    `json:"wip_limit"`
	AcceptsCards bool   `json:"accepts_cards"`
	CardCount    int    `json:"card_count"`
	OverLimit    bool   `json:"over_limit"`
}

// Swimlane is the wire form of one horizontal board lane.
type Swimlane struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Card is the wire form of one board card.
type Card struct {
	ID          string    `json:"id"`
	ColumnID    string    `json:"column_id"`
	SwimlaneID  string    `json:"swimlane_id,omitempty"`
	Position    int       `json:"position"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	Locked      bool      `json:"locked,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ColumnLimit is the wire form of one column's WIP posture.
type ColumnLimit struct {
	ColumnID  string `json:"column_id"`
	Name      string `json:"name"`
	WIPLimit  int    `json:"wip_limit"`
	CardCount int    `json:"card_count"`
	OverLimit bool   `json:"over_limit"`
}

// MoveCardRequest asks for one card relocation.
type MoveCardRequest struct {
	CardID       string `json:"-"`
	ToColumnID   string `json:"to_column_id"`
	ToSwimlaneID string `json:"to_swimlane_id,omitempty"`
	ToIndex      int    `json:"to_index"`
}

// MoveColumnRequest asks for one column relocation.
type MoveColumnRequest struct {
	ColumnID string `json:"-"`
	ToIndex  int    `json:"to_index"`
}

// MoveRecord is the wire form of one committed move.
type MoveRecord struct {
	SubjectID      string `json:"subject_id"`
	Kind           string `json:"kind"`
	FromColumnID   string `json:"from_column_id,omitempty"`
	FromSwimlaneID string `json:"from_swimlane_id,omitempty"`
	FromIndex      int    `json:"from_index"`
	ToColumnID     string `json:"to_column_id,omitempty"`
	ToSwimlaneID   string `json:"to_swimlane_id,omitempty"`
	ToIndex        int    `json:"to_index"`
}

// MoveResult reports whether a move request changed the board. Stale
// references come back with Applied=false and no move record.
type MoveResult struct {
	Applied bool        `json:"applied"`
	Move    *MoveRecord `json:"move,omitempty"`
}

// BoardService is the operation surface both server transports expose.
type BoardService interface {
	Board(ctx context.Context) (Board, error)
	ColumnLimits(ctx context.Context) ([]ColumnLimit, error)
	MoveCard(ctx context.Context, req MoveCardRequest) (MoveResult, error)
	MoveColumn(ctx context.Context, req MoveColumnRequest) (MoveResult, error)
}
