// Package imaging loads photographs and produces the raster artefacts the overlay tools
// return: board crops, PNG encodings and parsed outline colours.
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward. Rectangles include their minimum and exclude their
// maximum.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached images are shared and must be treated as
// read-only; overlay surfaces are separate images.
//
// # Error Handling
//
// Functions return errors for unreadable or undecodable files, colours that do not parse,
// board outlines that fall outside the image, and encoding failures.
package imaging
