// Package dnd describes drop events coming from a drag-reorder surface. Each
// droppable zone is one task status; only moves between zones change state.
package dnd

import "github.com/tgienger/taskboard/internal/models"

// Location is a position inside a droppable zone
type Location struct {
	Zone  models.TaskStatus
	Index int
}

// DropEvent is emitted once per drop. Destination is nil when the item was
// released outside every zone.
type DropEvent struct {
	Source      Location
	Destination *Location
	ItemID      string
}

// Resolve returns the status change a drop asks for. ok is false when the
// drop was cancelled, landed where it started, or stayed inside its zone.
func Resolve(ev DropEvent) (taskID string, status models.TaskStatus, ok bool) {
	if ev.Destination == nil {
		return "", "", false
	}
	dst := *ev.Destination
	if dst == ev.Source {
		return "", "", false
	}
	if !dst.Zone.Valid() {
		return "", "", false
	}
	// within-zone reordering is accepted but not stored
	if dst.Zone == ev.Source.Zone {
		return "", "", false
	}
	return ev.ItemID, dst.Zone, true
}
