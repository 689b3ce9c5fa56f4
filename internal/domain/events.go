package domain

// SubjectKind describes which entity class a drag gesture holds.
type SubjectKind string

// SubjectKind values used by drag and move events.
const (
	SubjectCard   SubjectKind = "card"
	SubjectColumn SubjectKind = "column"
)

// MoveEvent describes one committed relocation. For column moves the group
// keys are zero and only the indices carry meaning.
type MoveEvent struct {
	SubjectID string
	Kind      SubjectKind
	From      GroupKey
	To        GroupKey
	FromIndex int
	ToIndex   int
}

// BoardChangeEvent carries the full replacement collections after a move.
type BoardChangeEvent struct {
	Columns   []Column
	Cards     []Card
	Swimlanes []Swimlane
}

// DragStartEvent is emitted when a gesture enters the dragging phase.
type DragStartEvent struct {
	SubjectID string
	Kind      SubjectKind
}

// DragEndEvent is emitted on every terminal gesture transition. Success
// reflects whether a commit occurred, not whether it changed anything.
type DragEndEvent struct {
	SubjectID string
	Kind      SubjectKind
	Success   bool
}
