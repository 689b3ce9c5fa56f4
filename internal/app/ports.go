package app

import (
	"context"
	"time"

	"github.com/hylla/flytta/internal/board"
)

// Repository persists whole board snapshots.
type Repository interface {
	LoadSnapshot(ctx context.Context) (board.Snapshot, error)
	SaveSnapshot(ctx context.Context, snap board.Snapshot) error
}

// Clock returns the current time.
type Clock func() time.Time
