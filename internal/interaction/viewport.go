package interaction

import (
	"image"
	"math"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// Viewport is the on-screen rectangle the scene is displayed in.
type Viewport struct {
	Rect image.Rectangle
}

// FitViewport scales an image of imageSize to fit inside an outside area, keeping its
// aspect ratio, and centres it.
func FitViewport(imageSize geometry.Size, outside image.Point) Viewport {
	if imageSize.Empty() || outside.X <= 0 || outside.Y <= 0 {
		return Viewport{}
	}

	scale := math.Min(float64(outside.X)/imageSize.Width, float64(outside.Y)/imageSize.Height)
	w := max(1, int(math.Round(imageSize.Width*scale)))
	h := max(1, int(math.Round(imageSize.Height*scale)))

	origin := image.Pt((outside.X-w)/2, (outside.Y-h)/2)
	return Viewport{Rect: image.Rectangle{Min: origin, Max: origin.Add(image.Pt(w, h))}}
}

// Size returns the display size of the viewport.
func (v Viewport) Size() geometry.Size {
	return geometry.Size{Width: float64(v.Rect.Dx()), Height: float64(v.Rect.Dy())}
}

// Local converts a screen position to viewport-relative display coordinates. The second
// result is false when the position lies outside the viewport.
func (v Viewport) Local(x, y int) (geometry.Point, bool) {
	p := image.Pt(x, y)
	if !p.In(v.Rect) {
		return geometry.Point{}, false
	}
	d := p.Sub(v.Rect.Min)
	return geometry.Pt(float64(d.X), float64(d.Y)), true
}
