package board

import "github.com/hylla/flytta/internal/domain"

// Notifier fans committed board changes out to registered collaborators.
// Callbacks run synchronously in registration order on the gesture's
// goroutine; a nil Notifier drops every event.
type Notifier struct {
	onDragStart   []func(domain.DragStartEvent)
	onMove        []func(domain.MoveEvent)
	onBoardChange []func(domain.BoardChangeEvent)
	onDragEnd     []func(domain.DragEndEvent)
}

// NewNotifier constructs a new value for this package.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// OnDragStart registers a drag-start listener.
func (n *Notifier) OnDragStart(fn func(domain.DragStartEvent)) {
	if n == nil || fn == nil {
		return
	}
	n.onDragStart = append(n.onDragStart, fn)
}

// OnMove registers a move listener.
func (n *Notifier) OnMove(fn func(domain.MoveEvent)) {
	if n == nil || fn == nil {
		return
	}
	n.onMove = append(n.onMove, fn)
}

// OnBoardChange registers a board-change listener.
func (n *Notifier) OnBoardChange(fn func(domain.BoardChangeEvent)) {
	if n == nil || fn == nil {
		return
	}
	n.onBoardChange = append(n.onBoardChange, fn)
}

// OnDragEnd registers a drag-end listener.
func (n *Notifier) OnDragEnd(fn func(domain.DragEndEvent)) {
	if n == nil || fn == nil {
		return
	}
	n.onDragEnd = append(n.onDragEnd, fn)
}

// PublishDragStart fans out a drag-start event.
func (n *Notifier) PublishDragStart(event domain.DragStartEvent) {
	if n == nil {
		return
	}
	for _, fn := range n.onDragStart {
		fn(event)
	}
}

// PublishMove fans out a committed move event.
func (n *Notifier) PublishMove(event domain.MoveEvent) {
	if n == nil {
		return
	}
	for _, fn := range n.onMove {
		fn(event)
	}
}

// PublishBoardChange fans out a board-change event.
func (n *Notifier) PublishBoardChange(event domain.BoardChangeEvent) {
	if n == nil {
		return
	}
	for _, fn := range n.onBoardChange {
		fn(event)
	}
}

// PublishDragEnd fans out a drag-end event.
func (n *Notifier) PublishDragEnd(event domain.DragEndEvent) {
	if n == nil {
		return
	}
	for _, fn := range n.onDragEnd {
		fn(event)
	}
}
