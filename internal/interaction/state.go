package interaction

import (
	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// HoverState is the transient pointer state. Board is nil when idle and otherwise points
// into the current result's board slice.
type HoverState struct {
	Board   *detection.Board
	Pointer *geometry.Point
}

// Idle reports whether no board is hovered.
func (s HoverState) Idle() bool {
	return s.Board == nil
}

// move is the transition for a pointer move that resolved to hit (nil for no board). It
// reports whether the highlight changed and the scene must be redrawn.
func move(s HoverState, hit *detection.Board, pos geometry.Point) (HoverState, bool) {
	next := HoverState{Board: hit, Pointer: &pos}
	return next, hit != s.Board
}

// leave is the transition for the pointer leaving the surface. The baseline is always
// redrawn, even from Idle.
func leave(HoverState) (HoverState, bool) {
	return HoverState{}, true
}
