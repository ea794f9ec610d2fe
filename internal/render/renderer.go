package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/board-overlay-mcp/internal/detection"
)

var (
	// ErrSurfaceMismatch is returned when the surface is not exactly the photograph's size.
	ErrSurfaceMismatch = errors.New("surface size does not match image size")

	// ErrNoImage is returned when Render is called without a photograph.
	ErrNoImage = errors.New("no image to render")
)

// SceneRenderer draws board overlay scenes with a fixed Style. It holds no scene state;
// everything it draws comes from the arguments of Render.
type SceneRenderer struct {
	style Style
}

// NewSceneRenderer returns a renderer using style.
func NewSceneRenderer(style Style) *SceneRenderer {
	return &SceneRenderer{style: style}
}

// Style returns the renderer's style.
func (r *SceneRenderer) Style() Style {
	return r.style
}

// Prepare converts a decoded photograph into an RGBA image anchored at the origin, the
// layout Render composites fastest. Call it once per photograph, not per frame.
// An RGBA input already at the origin is returned as is.
func Prepare(img image.Image) *image.RGBA {
	rgba := clone.AsShallowRGBA(img)
	if rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}

	out := image.NewRGBA(image.Rectangle{Max: rgba.Bounds().Size()})
	draw.Draw(out, out.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
	return out
}

// NewSurface allocates a transparent surface with exactly the size of img.
func NewSurface(img image.Image) *image.RGBA {
	return image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
}

// Render redraws the full scene onto dst.
//
// Steps, always all of them:
//  1. clear dst
//  2. draw img at natural resolution
//  3. when highlighted is non-nil, shade the photo and redraw it through the highlighted
//     polygon so only that board stays at full brightness
//  4. stroke every board outline; the highlighted board is stroked last, in the highlight
//     style, so it is never covered by a neighbour's outline
//
// highlighted must be nil or a pointer into boards.
func (r *SceneRenderer) Render(dst *image.RGBA, img image.Image, boards []detection.Board, highlighted *detection.Board) error {
	if img == nil {
		return ErrNoImage
	}
	bounds := dst.Bounds()
	if bounds.Size() != img.Bounds().Size() {
		return fmt.Errorf("%w: surface %dx%d, image %dx%d", ErrSurfaceMismatch,
			bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	draw.Draw(dst, bounds, image.Transparent, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, img.Bounds().Min, draw.Src)

	if highlighted != nil {
		r.spotlight(dst, img, highlighted)
	}

	for i := range boards {
		if &boards[i] == highlighted {
			continue
		}
		strokePolygon(dst, boards[i].Detection.Points, r.style.OutlineWidth, r.style.OutlineColor)
	}
	if highlighted != nil {
		strokePolygon(dst, highlighted.Detection.Points, r.style.HighlightWidth, r.style.HighlightColor)
	}

	return nil
}

// spotlight shades the whole surface and redraws img inside the board polygon.
func (r *SceneRenderer) spotlight(dst *image.RGBA, img image.Image, b *detection.Board) {
	bounds := dst.Bounds()
	draw.Draw(dst, bounds, image.NewUniform(r.style.ShadeColor), image.Point{}, draw.Over)

	// Mask coordinates are surface coordinates; the photo may not start at the origin.
	mask := polygonMask(b.Detection.Points, bounds)
	if mask == nil {
		return
	}
	clip := mask.Bounds()
	offset := img.Bounds().Min.Sub(bounds.Min)
	draw.DrawMask(dst, clip, img, clip.Min.Add(offset), mask, clip.Min, draw.Over)
}
