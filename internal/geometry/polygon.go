package geometry

import (
	"image"
	"math"
)

// Point is a position in image-pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is the width and height of a container such as a display area.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether s has no area.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Polygon is an ordered vertex list. Edges join consecutive vertices and the last vertex
// back to the first.
type Polygon []Point

// Edge returns the endpoints of edge i, which runs from vertex i to vertex (i+1) mod n.
func (poly Polygon) Edge(i int) (Point, Point) {
	n := len(poly)
	return poly[i], poly[(i+1)%n]
}

// Edges calls fn for every edge in vertex order and stops early when fn returns false.
func (poly Polygon) Edges(fn func(i int, a, b Point) bool) {
	for i := range poly {
		a, b := poly.Edge(i)
		if !fn(i, a, b) {
			return
		}
	}
}

// Bounds returns the smallest integer rectangle containing every vertex.
// An empty polygon yields the zero rectangle.
func (poly Polygon) Bounds() image.Rectangle {
	if len(poly) == 0 {
		return image.Rectangle{}
	}
	minX, minY := poly[0].X, poly[0].Y
	maxX, maxY := minX, minY
	for _, p := range poly[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
}

// DistancePointToSegment returns the distance from p to the closest point of segment v-w.
//
// The projection parameter of p onto the line through v and w is clamped to [0,1] so the
// result is measured against the segment rather than the infinite line. A zero-length
// segment (v == w) returns the distance from p to v.
func DistancePointToSegment(p, v, w Point) float64 {
	dx := w.X - v.X
	dy := w.Y - v.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(v)
	}

	t := ((p.X-v.X)*dx + (p.Y-v.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))

	return p.Dist(Point{X: v.X + t*dx, Y: v.Y + t*dy})
}

// IsNearPolygonEdge reports whether p lies within threshold pixels of any edge of poly.
func IsNearPolygonEdge(p Point, poly Polygon, threshold float64) bool {
	near := false
	poly.Edges(func(_ int, a, b Point) bool {
		near = DistancePointToSegment(p, a, b) <= threshold
		return !near
	})
	return near
}

// IsPointInPolygon reports whether p is inside poly using the even-odd ray casting rule.
//
// A horizontal ray is cast from p toward +X; every edge (i, i-1) whose y-extent straddles
// p.Y and whose crossing lies to the right of p toggles the result.
func IsPointInPolygon(p Point, poly Polygon) bool {
	inside := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y

		// The straddle guard also keeps yj-yi away from zero.
		if (yi > p.Y) != (yj > p.Y) && p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
