// Package geometry provides the polygon primitives used for hit testing detected boards.
//
// All coordinates are image-pixel coordinates: (0,0) is the top-left pixel, X grows to the
// right and Y grows downward. A Polygon is an ordered list of vertices with an implicit edge
// from the last vertex back to the first.
//
// # Containment
//
// IsPointInPolygon uses the even-odd ray casting rule and is only correct for simple
// (non-self-intersecting) polygons. Points exactly on the boundary resolve deterministically
// according to the crossing test, which is not the same as "inside" for every edge; callers
// that need boundary tolerance combine it with IsNearPolygonEdge.
//
// # Degenerate Input
//
// None of the functions panic on polygons with fewer than three vertices or on zero-length
// edges. A zero-length segment measures as the distance to its single point.
package geometry
