// Package app exposes board operations to transports that are not part of
// an interactive drag gesture.
package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
)

// Service applies direct move requests against the shared store and keeps
// the repository in sync. Moves that reference stale entities are reported
// as not applied rather than failed.
type Service struct {
	store    *board.Store
	repo     Repository
	notifier *board.Notifier
	clock    Clock
	logger   *charmLog.Logger
}

// MoveOutcome reports whether a requested move changed the board.
type MoveOutcome struct {
	Applied bool
	Event   domain.MoveEvent
}

// ColumnLimit summarizes one column's WIP posture.
type ColumnLimit struct {
	ColumnID  string
	Name      string
	WIPLimit  int
	CardCount int
	OverLimit bool
}

// NewService constructs a new value for this package.
func NewService(store *board.Store, repo Repository, notifier *board.Notifier, clock Clock, logger *charmLog.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Service{
		store:    store,
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// Board returns the current board snapshot.
func (s *Service) Board(_ context.Context) board.Snapshot {
	return s.store.Snapshot()
}

// ColumnLimits reports card counts against each column's advisory limit.
func (s *Service) ColumnLimits(_ context.Context) []ColumnLimit {
	snap := s.store.Snapshot()
	columns := snap.SortedColumns()
	out := make([]ColumnLimit, 0, len(columns))
	for _, column := range columns {
		out = append(out, ColumnLimit{
			ColumnID:  column.ID,
			Name:      column.Name,
			WIPLimit:  column.WIPLimit,
			CardCount: len(snap.CardsInColumn(column.ID)),
			OverLimit: snap.IsOverLimit(column.ID),
		})
	}
	return out
}

// MoveCard relocates one card to the given group and index. Unknown cards,
// unknown target columns, and columns that refuse cards leave the board
// untouched and report Applied=false.
func (s *Service) MoveCard(ctx context.Context, cardID string, to domain.GroupKey, index int) (MoveOutcome, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return MoveOutcome{}, fmt.Errorf("card id is required: %w", ErrInvalidRequest)
	}
	if strings.TrimSpace(to.ColumnID) == "" {
		return MoveOutcome{}, fmt.Errorf("target column id is required: %w", ErrInvalidRequest)
	}

	snap := s.store.Snapshot()
	if card, ok := snap.FindCard(cardID); ok && card.Locked {
		s.logger.Debug("move refused for locked card", "card", cardID)
		return MoveOutcome{}, nil
	}
	if column, ok := snap.FindColumn(to.ColumnID); ok && !column.AcceptsCards {
		s.logger.Debug("move refused by target column", "card", cardID, "column", to.ColumnID)
		return MoveOutcome{}, nil
	}

	next, event, changed := board.ResolveCardMove(snap, cardID, to, index, s.clock())
	if !changed {
		return MoveOutcome{}, nil
	}
	return s.commit(ctx, next, event)
}

// MoveColumn relocates one column to the given display index.
func (s *Service) MoveColumn(ctx context.Context, columnID string, index int) (MoveOutcome, error) {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return MoveOutcome{}, fmt.Errorf("column id is required: %w", ErrInvalidRequest)
	}

	next, event, changed := board.ResolveColumnMove(s.store.Snapshot(), columnID, index, s.clock())
	if !changed {
		return MoveOutcome{}, nil
	}
	return s.commit(ctx, next, event)
}

// commit replaces the store, persists, and fans events out. A persistence
// failure rolls the optimistic replacement back before returning.
func (s *Service) commit(ctx context.Context, next board.Snapshot, event domain.MoveEvent) (MoveOutcome, error) {
	s.store.Replace(next)
	if s.repo != nil {
		if err := s.repo.SaveSnapshot(ctx, next); err != nil {
			board.NewMoveCommand(event).Revert(s.store, s.clock())
			s.logger.Error("move rolled back after save failure", "subject", event.SubjectID, "err", err)
			return MoveOutcome{}, fmt.Errorf("persist move: %w", err)
		}
	}
	s.logger.Info("move applied",
		"subject", event.SubjectID,
		"kind", event.Kind,
		"from", event.From.String(),
		"from_index", event.FromIndex,
		"to", event.To.String(),
		"to_index", event.ToIndex,
	)
	s.notifier.PublishMove(event)
	s.notifier.PublishBoardChange(domain.BoardChangeEvent{
		Columns:   next.Columns,
		Cards:     next.Cards,
		Swimlanes: next.Swimlanes,
	})
	return MoveOutcome{Applied: true, Event: event}, nil
}
