// Package render draws the board overlay scene: the photograph, every board outline, and an
// optional spotlight on one highlighted board.
//
// Every call to SceneRenderer.Render redraws the whole surface from scratch. There is no
// dirty-rectangle tracking. Rendering the same inputs twice yields identical pixels.
//
// # Surface Size
//
// Hit testing works in image-pixel space, so the surface must be exactly the size of the
// photograph. Render returns ErrSurfaceMismatch rather than scaling.
//
// # Spotlight
//
// With a highlighted board the photograph is shaded with a translucent dark layer, then
// redrawn at full brightness through a coverage mask rasterized from the board polygon.
package render
