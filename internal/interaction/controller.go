// Package interaction turns pointer events into hover state, scene redraws and tooltip
// layout for one photograph and its analysis result.
//
// A Controller owns the drawing surface and the hover state. It is not safe for concurrent
// use; hosts deliver every event from a single goroutine.
package interaction

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/board-overlay-mcp/internal/config"
	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
	"github.com/ironsheep/board-overlay-mcp/internal/hittest"
	"github.com/ironsheep/board-overlay-mcp/internal/render"
	"github.com/ironsheep/board-overlay-mcp/internal/tooltip"
)

// ErrEmptyDisplay is returned for a pointer move reported against a display area with no
// width or height.
var ErrEmptyDisplay = errors.New("display area is empty")

// Renderer redraws the whole scene onto dst.
type Renderer interface {
	Render(dst *image.RGBA, img image.Image, boards []detection.Board, highlighted *detection.Board) error
}

// Options tunes hit testing and tooltip layout.
type Options struct {
	EdgeThreshold float64
	TooltipOffset float64
	TooltipMargin float64
}

// DefaultOptions returns the reference tolerances.
func DefaultOptions() Options {
	return Options{
		EdgeThreshold: hittest.DefaultEdgeThreshold,
		TooltipOffset: 15,
		TooltipMargin: 10,
	}
}

// OptionsFrom takes the tolerances from cfg.
func OptionsFrom(cfg config.Config) Options {
	return Options{
		EdgeThreshold: cfg.EdgeThreshold,
		TooltipOffset: float64(cfg.TooltipOffset),
		TooltipMargin: float64(cfg.TooltipMargin),
	}
}

// Tooltip describes the information panel for the hovered board.
type Tooltip struct {
	Placement tooltip.Placement `json:"placement"`
	Anchor    tooltip.Anchor    `json:"anchor"`
	Content   tooltip.Content   `json:"content"`
}

// Update is the outcome of one pointer event.
type Update struct {
	// Board is the hovered board, nil when idle.
	Board *detection.Board

	// Index is Board's position in the result, or -1.
	Index int

	// Pointer is the event position in image pixels. Nil for leave and ignored events.
	Pointer *geometry.Point

	// Rendered is true when the surface was redrawn for this event.
	Rendered bool

	// Tooltip is nil when no board is hovered.
	Tooltip *Tooltip
}

// Controller drives hit testing and redraws for one image/result pair at a time.
type Controller struct {
	renderer Renderer
	opts     Options

	img     *image.RGBA
	result  *detection.AnalysisResult
	surface *image.RGBA

	state     HoverState
	placement tooltip.Placement
}

// New returns a controller with no source loaded.
func New(r Renderer, opts Options) *Controller {
	return &Controller{renderer: r, opts: opts}
}

// SetSource replaces the photograph and result, resets to Idle and renders the baseline
// scene. Passing a nil image or result unloads the source.
func (c *Controller) SetSource(img image.Image, result *detection.AnalysisResult) error {
	c.state = HoverState{}
	c.placement = tooltip.Placement{}

	if img == nil || result == nil {
		c.img, c.result, c.surface = nil, nil, nil
		return nil
	}

	c.img = render.Prepare(img)
	c.result = result
	c.surface = render.NewSurface(c.img)
	return c.redraw(c.state)
}

// Loaded reports whether a source is set.
func (c *Controller) Loaded() bool {
	return c.img != nil && c.result != nil
}

// Image returns the prepared photograph, or nil.
func (c *Controller) Image() *image.RGBA {
	return c.img
}

// Result returns the current analysis result, or nil.
func (c *Controller) Result() *detection.AnalysisResult {
	return c.result
}

// Surface returns the rendered scene. The same image is reused across redraws.
func (c *Controller) Surface() *image.RGBA {
	return c.surface
}

// State returns the current hover state.
func (c *Controller) State() HoverState {
	return c.state
}

// ImageSize returns the photograph size in pixels, or zero when nothing is loaded.
func (c *Controller) ImageSize() geometry.Size {
	if c.img == nil {
		return geometry.Size{}
	}
	b := c.img.Bounds()
	return geometry.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Normalize maps a display position into image pixels, scaling each axis by
// image size / display size.
func Normalize(display geometry.Point, displaySize, imageSize geometry.Size) geometry.Point {
	return geometry.Point{
		X: display.X * imageSize.Width / displaySize.Width,
		Y: display.Y * imageSize.Height / displaySize.Height,
	}
}

// PointerMove handles a pointer at display position pos inside a display area of
// displaySize. Without a source it does nothing. The hover state only changes once the
// scene for it has been drawn.
func (c *Controller) PointerMove(pos geometry.Point, displaySize geometry.Size) (Update, error) {
	if !c.Loaded() {
		return Update{Index: -1}, nil
	}
	if displaySize.Empty() {
		return Update{Index: -1}, fmt.Errorf("%w: %gx%g", ErrEmptyDisplay, displaySize.Width, displaySize.Height)
	}

	p := Normalize(pos, displaySize, c.ImageSize())
	hit := hittest.FindBoardAt(p, c.result.Boards, c.opts.EdgeThreshold)
	next, changed := move(c.state, hit, p)

	u := Update{
		Board:   hit,
		Index:   c.result.IndexOf(hit),
		Pointer: next.Pointer,
	}

	placement := c.placement
	if changed {
		if hit != nil {
			placement = tooltip.Place(pos, displaySize)
		}
		if err := c.redraw(next); err != nil {
			return Update{Index: -1}, err
		}
		u.Rendered = true
	}
	c.state, c.placement = next, placement

	if hit != nil {
		u.Tooltip = &Tooltip{
			Placement: placement,
			Anchor:    tooltip.AnchorFor(placement, pos, displaySize, c.opts.TooltipOffset, c.opts.TooltipMargin),
			Content:   tooltip.ContentFor(hit),
		}
	}

	return u, nil
}

// PointerLeave returns to Idle and redraws the baseline scene.
func (c *Controller) PointerLeave() (Update, error) {
	if !c.Loaded() {
		return Update{Index: -1}, nil
	}

	next, redraw := leave(c.state)
	u := Update{Index: -1}
	if redraw {
		if err := c.redraw(next); err != nil {
			return u, err
		}
		u.Rendered = true
	}
	c.state, c.placement = next, tooltip.Placement{}
	return u, nil
}

func (c *Controller) redraw(s HoverState) error {
	if err := c.renderer.Render(c.surface, c.img, c.result.Boards, s.Board); err != nil {
		return fmt.Errorf("render scene: %w", err)
	}
	return nil
}
