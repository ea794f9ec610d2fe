// Package hittest resolves which detected board lies under a pointer.
//
// A board is hit when the point is inside its polygon or within the edge threshold of its
// outline. The threshold keeps thin sliver polygons reachable with an imprecise pointer.
// Boards are scanned in payload order and the first hit wins, so on overlap the board listed
// earlier takes priority. There is no area or z-order disambiguation.
package hittest

import (
	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// DefaultEdgeThreshold is the edge tolerance in image pixels.
const DefaultEdgeThreshold = 10.0

// Hit reports whether p hits poly with the given edge tolerance.
func Hit(p geometry.Point, poly geometry.Polygon, edgeThreshold float64) bool {
	return geometry.IsNearPolygonEdge(p, poly, edgeThreshold) || geometry.IsPointInPolygon(p, poly)
}

// FindIndex returns the index of the first board hit by p, or -1.
func FindIndex(p geometry.Point, boards []detection.Board, edgeThreshold float64) int {
	for i := range boards {
		if Hit(p, boards[i].Detection.Points, edgeThreshold) {
			return i
		}
	}
	return -1
}

// FindBoardAt returns the first board hit by p as a pointer into boards, or nil.
func FindBoardAt(p geometry.Point, boards []detection.Board, edgeThreshold float64) *detection.Board {
	if i := FindIndex(p, boards, edgeThreshold); i >= 0 {
		return &boards[i]
	}
	return nil
}
