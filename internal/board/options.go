package board

// Options gates which drag interactions the controller accepts.
type Options struct {
	// EnableDragDrop gates beginning any card drag.
	EnableDragDrop bool
	// EnableColumnDrag gates beginning any column drag.
	EnableColumnDrag bool
	// EnableCardReordering gates same-group position changes; when false only
	// cross-group moves take effect and same-group drops commit as no-ops.
	EnableCardReordering bool
	// EnableSwimlanes controls whether cards group by swimlane at all. When
	// false every card is treated as part of one implicit lane.
	EnableSwimlanes bool
}

// DefaultOptions returns the permissive default gate set.
func DefaultOptions() Options {
	return Options{
		EnableDragDrop:       true,
		EnableColumnDrag:     true,
		EnableCardReordering: true,
		EnableSwimlanes:      true,
	}
}
