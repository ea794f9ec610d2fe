// Package tooltip positions and draws the information panel shown for a hovered board.
//
// Placement is a pure function of the pointer position inside the container. It never
// measures the panel, so a panel that is large relative to the container can still overflow
// an edge in the left and right cases.
package tooltip

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// Vertical says whether the panel opens above or below the pointer.
type Vertical int

const (
	Below Vertical = iota
	Above
)

func (v Vertical) String() string {
	if v == Above {
		return "above"
	}
	return "below"
}

// MarshalText encodes v as "above" or "below".
func (v Vertical) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes "above" or "below".
func (v *Vertical) UnmarshalText(text []byte) error {
	switch string(text) {
	case "above":
		*v = Above
	case "below":
		*v = Below
	default:
		return fmt.Errorf("invalid vertical placement %q", text)
	}
	return nil
}

// Horizontal says how the panel is aligned across the container.
type Horizontal int

const (
	Center Horizontal = iota
	Left
	Right
)

func (h Horizontal) String() string {
	switch h {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// MarshalText encodes h as "left", "center" or "right".
func (h Horizontal) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes "left", "center" or "right".
func (h *Horizontal) UnmarshalText(text []byte) error {
	switch string(text) {
	case "left":
		*h = Left
	case "center":
		*h = Center
	case "right":
		*h = Right
	default:
		return fmt.Errorf("invalid horizontal placement %q", text)
	}
	return nil
}

// Placement is the quadrant the panel opens into.
type Placement struct {
	Vertical   Vertical   `json:"vertical"`
	Horizontal Horizontal `json:"horizontal"`
}

// Place opens the panel away from the nearer vertical edge and pins it to a side when the
// pointer is in the outer 30% of the container width.
func Place(pointer geometry.Point, container geometry.Size) Placement {
	var p Placement

	if pointer.Y > container.Height/2 {
		p.Vertical = Above
	}

	switch {
	case pointer.X < container.Width*0.3:
		p.Horizontal = Left
	case pointer.X > container.Width*0.7:
		p.Horizontal = Right
	default:
		p.Horizontal = Center
	}

	return p
}

// Anchor is the reference point a panel is laid out against.
//
// X is the panel's left edge for Left, its right edge for Right and its centre for Center.
// Y is the panel's bottom edge for Above and its top edge for Below.
type Anchor struct {
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Placement Placement `json:"placement"`
}

// AnchorFor resolves the anchor for placement. The panel sits offset pixels above or below
// the pointer; sideways it is pinned margin pixels from the chosen container edge or centred
// on the pointer.
func AnchorFor(placement Placement, pointer geometry.Point, container geometry.Size, offset, margin float64) Anchor {
	a := Anchor{Placement: placement}

	if placement.Vertical == Above {
		a.Y = pointer.Y - offset
	} else {
		a.Y = pointer.Y + offset
	}

	switch placement.Horizontal {
	case Left:
		a.X = margin
	case Right:
		a.X = container.Width - margin
	default:
		a.X = pointer.X
	}

	return a
}

// Rect lays out a panel of the given pixel size against the anchor.
func (a Anchor) Rect(panel image.Point) image.Rectangle {
	x := a.X
	switch a.Placement.Horizontal {
	case Right:
		x -= float64(panel.X)
	case Center:
		x -= float64(panel.X) / 2
	}

	y := a.Y
	if a.Placement.Vertical == Above {
		y -= float64(panel.Y)
	}

	origin := image.Pt(int(math.Round(x)), int(math.Round(y)))
	return image.Rectangle{Min: origin, Max: origin.Add(panel)}
}
