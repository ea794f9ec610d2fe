package interaction

import (
	"image"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// PointerEvent is what a host should send to the Controller after a cursor sample.
type PointerEvent int

const (
	// NoEvent means nothing changed since the last sample.
	NoEvent PointerEvent = iota
	// MoveEvent means the cursor is over the scene and moved, or the scene moved under it.
	MoveEvent
	// LeaveEvent means the cursor left the scene or the window lost focus.
	LeaveEvent
)

// PointerTracker turns per-frame cursor samples from a windowed host into pointer events.
// Only changes produce events: a cursor resting on the scene is reported once, and a
// leave is reported once per exit.
type PointerTracker struct {
	inside   bool
	cursor   image.Point
	viewport Viewport
}

// Sample records the cursor at screen position cursor with the scene shown in vp. For a
// MoveEvent the second result is the cursor in display coordinates relative to vp.
func (t *PointerTracker) Sample(vp Viewport, cursor image.Point, focused bool) (PointerEvent, geometry.Point) {
	local, inside := vp.Local(cursor.X, cursor.Y)
	if !inside || !focused {
		wasInside := t.inside
		t.inside, t.viewport = false, vp
		if wasInside {
			return LeaveEvent, geometry.Point{}
		}
		return NoEvent, geometry.Point{}
	}

	if t.inside && cursor == t.cursor && vp == t.viewport {
		return NoEvent, geometry.Point{}
	}
	t.inside, t.cursor, t.viewport = true, cursor, vp
	return MoveEvent, local
}
