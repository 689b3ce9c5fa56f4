package domain

// GroupKey identifies the set of cards sharing a column and swimlane. An empty
// SwimlaneID means the card sits outside any explicit lane; the pair is still a
// distinct group.
type GroupKey struct {
	ColumnID   string
	SwimlaneID string
}

// IsZero reports whether the key identifies no group at all.
func (g GroupKey) IsZero() bool {
	return g.ColumnID == "" && g.SwimlaneID == ""
}

// String renders the key for logs and event metadata.
func (g GroupKey) String() string {
	if g.SwimlaneID == "" {
		return g.ColumnID
	}
	return g.ColumnID + "/" + g.SwimlaneID
}
