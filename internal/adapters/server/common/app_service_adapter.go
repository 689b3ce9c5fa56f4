package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/hylla/flytta/internal/app"
	"github.com/hylla/flytta/internal/board"
	"github.com/hylla/flytta/internal/domain"
)

// AppServiceAdapter exposes one app.Service as the transport-facing
// BoardService contract.
type AppServiceAdapter struct {
	svc *app.Service
}

// NewAppServiceAdapter constructs a new value for this package.
func NewAppServiceAdapter(svc *app.Service) *AppServiceAdapter {
	return &AppServiceAdapter{svc: svc}
}

// Board returns the wire form of the current board snapshot.
func (a *AppServiceAdapter) Board(ctx context.Context) (Board, error) {
	if a == nil || a.svc == nil {
		return Board{}, ErrServiceUnavailable
	}
	return boardFromSnapshot(a.svc.Board(ctx)), nil
}

// ColumnLimits returns the wire form of each column's WIP posture.
func (a *AppServiceAdapter) ColumnLimits(ctx context.Context) ([]ColumnLimit, error) {
	if a == nil || a.svc == nil {
		return nil, ErrServiceUnavailable
	}
	limits := a.svc.ColumnLimits(ctx)
	out := make([]ColumnLimit, 0, len(limits))
	for _, limit := range limits {
		out = append(out, ColumnLimit{
			ColumnID:  limit.ColumnID,
			Name:      limit.Name,
			WIPLimit:  limit.WIPLimit,
			CardCount: limit.CardCount,
			OverLimit: limit.OverLimit,
		})
	}
	return out, nil
}

// MoveCard relays one card move request to the app service.
func (a *AppServiceAdapter) MoveCard(ctx context.Context, req MoveCardRequest) (MoveResult, error) {
	if a == nil || a.svc == nil {
		return MoveResult{}, ErrServiceUnavailable
	}
	to := domain.GroupKey{ColumnID: req.ToColumnID, SwimlaneID: req.ToSwimlaneID}
	outcome, err := a.svc.MoveCard(ctx, req.CardID, to, req.ToIndex)
	if err != nil {
		return MoveResult{}, translateAppError(err)
	}
	return moveResultFromOutcome(outcome), nil
}

// MoveColumn relays one column move request to the app service.
func (a *AppServiceAdapter) MoveColumn(ctx context.Context, req MoveColumnRequest) (MoveResult, error) {
	if a == nil || a.svc == nil {
		return MoveResult{}, ErrServiceUnavailable
	}
	outcome, err := a.svc.MoveColumn(ctx, req.ColumnID, req.ToIndex)
	if err != nil {
		return MoveResult{}, translateAppError(err)
	}
	return moveResultFromOutcome(outcome), nil
}

// translateAppError maps app sentinels onto transport sentinels.
func translateAppError(err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidRequest):
		return fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	case errors.Is(err, app.ErrNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, err.Error())
	default:
		return err
	}
}

// boardFromSnapshot maps domain collections into wire DTOs.
func boardFromSnapshot(snap board.Snapshot) Board {
	columns := snap.SortedColumns()
	out := Board{
		Columns:   make([]Column, 0, len(columns)),
		Swimlanes: []Swimlane{},
		Cards:     make([]Card, 0, len(snap.Cards)),
	}
	for _, column := range columns {
		out.Columns = append(out.Columns, Column{
			ID:           column.ID,
			Name:         column.Name,
			Position:     column.Order,
			WIPLimit:     column.WIPLimit,
			AcceptsCards: column.AcceptsCards,
			CardCount:    len(snap.CardsInColumn(column.ID)),
			OverLimit:    snap.IsOverLimit(column.ID),
		})
	}
	for _, lane := range snap.EffectiveSwimlanes() {
		out.Swimlanes = append(out.Swimlanes, Swimlane{
			ID:       lane.ID,
			Name:     lane.Name,
			Position: lane.Order,
		})
	}
	// Cards are listed group by group so consumers see display order.
	emitted := make(map[string]bool, len(snap.Cards))
	appendGroup := func(group domain.GroupKey) {
		for _, card := range snap.CardsInGroup(group) {
			if emitted[card.ID] {
				continue
			}
			emitted[card.ID] = true
			out.Cards = append(out.Cards, cardFromDomain(card))
		}
	}
	for _, column := range columns {
		appendGroup(domain.GroupKey{ColumnID: column.ID})
		for _, lane := range snap.EffectiveSwimlanes() {
			appendGroup(domain.GroupKey{ColumnID: column.ID, SwimlaneID: lane.ID})
		}
		// Cards in lanes the board no longer lists still belong to the column.
		for _, card := range snap.CardsInColumn(column.ID) {
			appendGroup(card.Group())
		}
	}
	for _, card := range snap.Cards {
		if !emitted[card.ID] {
			emitted[card.ID] = true
			out.Cards = append(out.Cards, cardFromDomain(card))
		}
	}
	return out
}

// cardFromDomain maps one card into its wire form.
func cardFromDomain(card domain.Card) Card {
	return Card{
		ID:          card.ID,
		ColumnID:    card.ColumnID,
		SwimlaneID:  card.SwimlaneID,
		Position:    card.Order,
		Title:       card.Title,
		Description: card.Description,
		Labels:      card.Labels,
		Locked:      card.Locked,
		CreatedAt:   card.CreatedAt,
		UpdatedAt:   card.UpdatedAt,
	}
}

// moveResultFromOutcome maps one app outcome into its wire form.
func moveResultFromOutcome(outcome app.MoveOutcome) MoveResult {
	if !outcome.Applied {
		return MoveResult{}
	}
	event := outcome.Event
	return MoveResult{
		Applied: true,
		Move: &MoveRecord{
			SubjectID:      event.SubjectID,
			Kind:           string(event.Kind),
			FromColumnID:   event.From.ColumnID,
			FromSwimlaneID: event.From.SwimlaneID,
			FromIndex:      event.FromIndex,
			ToColumnID:     event.To.ColumnID,
			ToSwimlaneID:   event.To.SwimlaneID,
			ToIndex:        event.ToIndex,
		},
	}
}
