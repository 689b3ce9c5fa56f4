package board

import (
	"time"

	"github.com/hylla/flytta/internal/domain"
)

// MoveCommand pairs a committed move with its inverse so hosts can apply a
// move optimistically and roll it back when an external persistence step
// fails. Built from the MoveEvent of a committed drop.
type MoveCommand struct {
	SubjectID string
	Kind      domain.SubjectKind
	From      domain.GroupKey
	To        domain.GroupKey
	FromIndex int
	ToIndex   int
}

// NewMoveCommand derives a command from one committed move event.
func NewMoveCommand(event domain.MoveEvent) MoveCommand {
	return MoveCommand{
		SubjectID: event.SubjectID,
		Kind:      event.Kind,
		From:      event.From,
		To:        event.To,
		FromIndex: event.FromIndex,
		ToIndex:   event.ToIndex,
	}
}

// Apply runs the forward move against the store.
func (c MoveCommand) Apply(store *Store, now time.Time) (domain.MoveEvent, bool) {
	return c.run(store, c.To, c.ToIndex, now)
}

// Revert applies the inverse move, restoring the subject to its source group
// and index.
func (c MoveCommand) Revert(store *Store, now time.Time) (domain.MoveEvent, bool) {
	return c.run(store, c.From, c.FromIndex, now)
}

// run resolves one direction of the command and replaces the store snapshot
// when the move had an effect.
func (c MoveCommand) run(store *Store, to domain.GroupKey, index int, now time.Time) (domain.MoveEvent, bool) {
	snap := store.Snapshot()

	var (
		next    Snapshot
		event   domain.MoveEvent
		changed bool
	)
	switch c.Kind {
	case domain.SubjectColumn:
		next, event, changed = ResolveColumnMove(snap, c.SubjectID, index, now)
	default:
		next, event, changed = ResolveCardMove(snap, c.SubjectID, to, index, now)
	}
	if changed {
		store.Replace(next)
	}
	return event, changed
}
