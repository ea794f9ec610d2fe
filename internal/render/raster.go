package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// joinSegments is the number of sides used to approximate round stroke joins.
const joinSegments = 16

// pathBounds returns the integer rectangle covering pts.
func pathBounds(pts []geometry.Point) image.Rectangle {
	return geometry.Polygon(pts).Bounds()
}

// newPathRasterizer returns a rasterizer covering clip with pts already added as a closed
// path, translated so that clip.Min is the rasterizer origin.
func newPathRasterizer(clip image.Rectangle, pts []geometry.Point) *vector.Rasterizer {
	z := vector.NewRasterizer(clip.Dx(), clip.Dy())
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)

	z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	z.ClosePath()
	return z
}

// addPath merges the coverage of the closed path pts into mask.
func addPath(mask *image.Alpha, pts []geometry.Point) {
	if len(pts) < 3 {
		return
	}
	clip := pathBounds(pts).Inset(-1).Intersect(mask.Rect)
	if clip.Empty() {
		return
	}

	z := newPathRasterizer(clip, pts)
	z.DrawOp = draw.Over
	z.Draw(mask, clip, image.Opaque, clip.Min)
}

// polygonMask rasterizes poly into an alpha coverage mask clipped to bounds.
// It returns nil when the polygon has no area inside bounds.
func polygonMask(poly geometry.Polygon, bounds image.Rectangle) *image.Alpha {
	if len(poly) < 3 {
		return nil
	}
	clip := poly.Bounds().Inset(-1).Intersect(bounds)
	if clip.Empty() {
		return nil
	}

	mask := image.NewAlpha(clip)
	z := newPathRasterizer(clip, poly)
	z.DrawOp = draw.Src
	z.Draw(mask, clip, image.Opaque, image.Point{})
	return mask
}

// strokePolygon draws the closed outline of poly with the given width. Each edge is a quad
// and each vertex a round join, so the outline has no gaps at sharp corners. All pieces
// share one coverage mask and c is composited once, so overlaps at joins do not darken.
func strokePolygon(dst *image.RGBA, poly geometry.Polygon, width float64, c color.RGBA) {
	mask := strokeMask(poly, width, dst.Bounds())
	if mask == nil {
		return
	}
	draw.DrawMask(dst, mask.Rect, image.NewUniform(c), image.Point{}, mask, mask.Rect.Min, draw.Over)
}

// strokeMask returns the outline coverage of poly clipped to bounds, or nil when nothing
// of it lies inside bounds.
func strokeMask(poly geometry.Polygon, width float64, bounds image.Rectangle) *image.Alpha {
	if len(poly) < 2 || width <= 0 {
		return nil
	}
	hw := width / 2

	clip := poly.Bounds().Inset(-int(math.Ceil(hw)) - 1).Intersect(bounds)
	if clip.Empty() {
		return nil
	}

	mask := image.NewAlpha(clip)
	poly.Edges(func(_ int, a, b geometry.Point) bool {
		if quad, ok := segmentQuad(a, b, hw); ok {
			addPath(mask, quad)
		}
		return true
	})
	for _, p := range poly {
		addPath(mask, disc(p, hw))
	}
	return mask
}

// segmentQuad returns the rectangle of half-width hw around segment a-b.
func segmentQuad(a, b geometry.Point, hw float64) ([]geometry.Point, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return nil, false
	}
	nx, ny := -dy/l*hw, dx/l*hw

	return []geometry.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}, true
}

// disc approximates a circle of radius r around center.
func disc(center geometry.Point, r float64) []geometry.Point {
	pts := make([]geometry.Point, joinSegments)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / joinSegments
		pts[i] = geometry.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	return pts
}
