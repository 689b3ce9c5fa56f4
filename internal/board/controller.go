package board

import (
	"io"
	"time"

	charmLog "github.com/charmbracelet/log"

	"github.com/hylla/flytta/internal/domain"
)

// Phase represents a selectable drag gesture phase.
type Phase string

// Phase values of the drag state machine.
const (
	PhaseIdle      Phase = "idle"
	PhaseDragging  Phase = "dragging"
	PhaseTargeting Phase = "targeting"
)

// Clock returns the current time.
type Clock func() time.Time

// candidate records the most recent valid hover target of a gesture.
type candidate struct {
	group domain.GroupKey
	index int
}

// Controller turns a temporal sequence of pointer gestures into validated,
// idempotent move operations against one Store. It is an instance value: one
// controller per board, never a process-wide singleton. All transitions run
// synchronously on the caller's goroutine and only one gesture may be active
// at a time.
type Controller struct {
	store    *Store
	notifier *Notifier
	clock    Clock
	logger   *charmLog.Logger
	opts     Options

	phase        Phase
	subjectID    string
	kind         domain.SubjectKind
	fromGroup    domain.GroupKey
	fromIndex    int
	candidate    candidate
	hasCandidate bool
	rejecting    bool
}

// NewController constructs a new value for this package. A nil clock falls
// back to time.Now and a nil logger discards gesture diagnostics.
func NewController(store *Store, notifier *Notifier, clock Clock, logger *charmLog.Logger, opts Options) *Controller {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = charmLog.New(io.Discard)
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
		opts:     opts,
		phase:    PhaseIdle,
	}
}

// Phase returns the current gesture phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Subject returns the active gesture subject, if any.
func (c *Controller) Subject() (string, domain.SubjectKind, bool) {
	if c.phase == PhaseIdle {
		return "", "", false
	}
	return c.subjectID, c.kind, true
}

// Candidate returns the most recent valid hover target, if any.
func (c *Controller) Candidate() (domain.GroupKey, int, bool) {
	if !c.hasCandidate {
		return domain.GroupKey{}, 0, false
	}
	return c.candidate.group, c.candidate.index, true
}

// Rejecting reports whether the last hover landed on a target that refuses
// the dragged subject. Consumers use it for invalid-drop feedback.
func (c *Controller) Rejecting() bool {
	return c.rejecting
}

// BeginDrag starts a gesture for one subject. Rejected gestures (drag
// disabled, unknown or locked subject, another gesture active) leave the
// machine in Idle and report false; no event is emitted for them.
func (c *Controller) BeginDrag(subjectID string, kind domain.SubjectKind) bool {
	if c.phase != PhaseIdle {
		c.logger.Debug("drag rejected: gesture already active", "subject", subjectID, "active", c.subjectID)
		return false
	}

	snap := c.store.Snapshot()
	switch kind {
	case domain.SubjectCard:
		if !c.opts.EnableDragDrop {
			c.logger.Debug("drag rejected: card dragging disabled", "subject", subjectID)
			return false
		}
		card, ok := snap.FindCard(subjectID)
		if !ok {
			c.logger.Debug("drag rejected: unknown card", "subject", subjectID)
			return false
		}
		if card.Locked {
			c.logger.Debug("drag rejected: card locked", "subject", subjectID)
			return false
		}
		c.fromGroup = c.effectiveGroup(card.Group())
		c.fromIndex = cardIndexInGroup(snap, card)
	case domain.SubjectColumn:
		if !c.opts.EnableColumnDrag {
			c.logger.Debug("drag rejected: column dragging disabled", "subject", subjectID)
			return false
		}
		if _, ok := snap.FindColumn(subjectID); !ok {
			c.logger.Debug("drag rejected: unknown column", "subject", subjectID)
			return false
		}
		c.fromGroup = domain.GroupKey{}
		c.fromIndex = columnIndex(snap, subjectID)
	default:
		return false
	}

	c.phase = PhaseDragging
	c.subjectID = subjectID
	c.kind = kind
	c.hasCandidate = false
	c.rejecting = false
	c.logger.Debug("drag started", "subject", subjectID, "kind", kind, "from", c.fromGroup.String(), "from_index", c.fromIndex)
	c.notifier.PublishDragStart(domain.DragStartEvent{SubjectID: subjectID, Kind: kind})
	return true
}

// HoverCard records a candidate drop target for an active card gesture. Only
// the most recent candidate is kept. Hovering a column that refuses cards
// clears the candidate and flags the gesture as rejecting while the machine
// stays in Dragging.
func (c *Controller) HoverCard(group domain.GroupKey, index int) bool {
	if c.phase == PhaseIdle || c.kind != domain.SubjectCard {
		return false
	}

	group = c.effectiveGroup(group)
	column, ok := c.store.Snapshot().FindColumn(group.ColumnID)
	if !ok || !column.AcceptsCards {
		c.hasCandidate = false
		c.rejecting = true
		c.phase = PhaseDragging
		c.logger.Debug("hover rejected", "subject", c.subjectID, "target", group.String())
		return false
	}

	c.candidate = candidate{group: group, index: index}
	c.hasCandidate = true
	c.rejecting = false
	c.phase = PhaseTargeting
	return true
}

// HoverColumn records a candidate index for an active column gesture.
func (c *Controller) HoverColumn(index int) bool {
	if c.phase == PhaseIdle || c.kind != domain.SubjectColumn {
		return false
	}
	c.candidate = candidate{index: index}
	c.hasCandidate = true
	c.rejecting = false
	c.phase = PhaseTargeting
	return true
}

// Drop commits the gesture against the store's current snapshot. Without a
// valid candidate the drop degrades to a cancellation. A commit that changes
// nothing still ends with success=true but emits no move or board-change
// event.
func (c *Controller) Drop() (domain.MoveEvent, bool) {
	if c.phase == PhaseIdle {
		return domain.MoveEvent{}, false
	}
	if c.phase != PhaseTargeting || !c.hasCandidate {
		c.Cancel()
		return domain.MoveEvent{}, false
	}

	subjectID, kind := c.subjectID, c.kind
	snap := c.store.Snapshot()

	var (
		next    Snapshot
		event   domain.MoveEvent
		changed bool
	)
	switch kind {
	case domain.SubjectCard:
		if !c.opts.EnableCardReordering && c.candidate.group == c.fromGroup {
			// Same-group reordering is gated off: the gesture completes but has no effect.
			changed = false
		} else {
			next, event, changed = ResolveCardMove(snap, subjectID, c.candidate.group, c.candidate.index, c.clock())
		}
	case domain.SubjectColumn:
		next, event, changed = ResolveColumnMove(snap, subjectID, c.candidate.index, c.clock())
	}

	if changed {
		c.store.Replace(next)
		c.logger.Info("move committed", "subject", subjectID, "kind", kind, "from", event.From.String(), "from_index", event.FromIndex, "to", event.To.String(), "to_index", event.ToIndex)
		c.notifier.PublishMove(event)
		c.notifier.PublishBoardChange(domain.BoardChangeEvent{
			Columns:   next.Columns,
			Cards:     next.Cards,
			Swimlanes: next.Swimlanes,
		})
	} else {
		c.logger.Debug("drop committed without effect", "subject", subjectID, "kind", kind)
	}

	c.reset()
	c.notifier.PublishDragEnd(domain.DragEndEvent{SubjectID: subjectID, Kind: kind, Success: true})
	return event, changed
}

// Cancel aborts the active gesture without touching the store. It is
// synchronous and unconditional: any prior candidate state is discarded.
func (c *Controller) Cancel() {
	if c.phase == PhaseIdle {
		return
	}
	subjectID, kind := c.subjectID, c.kind
	c.reset()
	c.logger.Debug("drag cancelled", "subject", subjectID, "kind", kind)
	c.notifier.PublishDragEnd(domain.DragEndEvent{SubjectID: subjectID, Kind: kind, Success: false})
}

// SubjectRemoved cancels the gesture when its drag source disappears
// mid-gesture. Hosts call it from their entity lifecycle handling.
func (c *Controller) SubjectRemoved(subjectID string) {
	if c.phase == PhaseIdle || c.subjectID != subjectID {
		return
	}
	c.Cancel()
}

// effectiveGroup collapses the swimlane dimension when lanes are disabled.
func (c *Controller) effectiveGroup(group domain.GroupKey) domain.GroupKey {
	if !c.opts.EnableSwimlanes {
		group.SwimlaneID = ""
	}
	return group
}

// reset returns the machine to Idle.
func (c *Controller) reset() {
	c.phase = PhaseIdle
	c.subjectID = ""
	c.kind = ""
	c.fromGroup = domain.GroupKey{}
	c.fromIndex = 0
	c.candidate = candidate{}
	c.hasCandidate = false
	c.rejecting = false
}

// columnIndex returns the column's position in the sorted column order.
func columnIndex(snap Snapshot, columnID string) int {
	for idx, column := range snap.SortedColumns() {
		if column.ID == columnID {
			return idx
		}
	}
	return 0
}
