package board

// Store owns the authoritative board collections for one session. Each
// successful move replaces the snapshot wholesale; previously emitted
// snapshots are never mutated in place.
type Store struct {
	snapshot Snapshot
}

// NewStore constructs a store around an initial snapshot.
func NewStore(snap Snapshot) *Store {
	return &Store{snapshot: snap.Clone()}
}

// Snapshot returns a copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	return s.snapshot.Clone()
}

// Replace swaps the authoritative snapshot wholesale.
func (s *Store) Replace(snap Snapshot) {
	s.snapshot = snap.Clone()
}
