// Package viewer hosts the overlay in an ebiten window. Cursor movement over the photograph
// becomes pointer-move events, leaving it (or the window losing focus) becomes
// pointer-leave, and the rendered surface is uploaded only after a redraw.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/ironsheep/board-overlay-mcp/internal/interaction"
	"github.com/ironsheep/board-overlay-mcp/internal/tooltip"
)

const (
	maxWindowW = 1280
	maxWindowH = 800
)

var background = color.RGBA{24, 24, 24, 255}

// Viewer implements ebiten.Game for one loaded controller.
type Viewer struct {
	ctrl  *interaction.Controller
	panel *tooltip.Panel
	log   *slog.Logger

	outside  image.Point
	viewport interaction.Viewport

	scene *ebiten.Image
	dirty bool

	pointer interaction.PointerTracker

	tip        *interaction.Tooltip
	tipContent tooltip.Content
	tipImage   *ebiten.Image
}

// New returns a viewer for ctrl, which must already have a source loaded.
func New(ctrl *interaction.Controller, panel *tooltip.Panel, log *slog.Logger) (*Viewer, error) {
	if !ctrl.Loaded() {
		return nil, fmt.Errorf("viewer needs a loaded image and result")
	}
	b := ctrl.Surface().Bounds()
	return &Viewer{
		ctrl:  ctrl,
		panel: panel,
		log:   log,
		scene: ebiten.NewImage(b.Dx(), b.Dy()),
		dirty: true,
	}, nil
}

// Run opens a window sized to the photograph, shrunk to fit a typical desktop.
func Run(v *Viewer, title string) error {
	size := v.ctrl.ImageSize()
	scale := min(1, maxWindowW/size.Width, maxWindowH/size.Height)

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(int(size.Width*scale), int(size.Height*scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

func (v *Viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	vp := interaction.FitViewport(v.ctrl.ImageSize(), v.outside)
	v.viewport = vp

	cx, cy := ebiten.CursorPosition()
	ev, local := v.pointer.Sample(vp, image.Pt(cx, cy), ebiten.IsFocused())

	var (
		u   interaction.Update
		err error
	)
	switch ev {
	case interaction.MoveEvent:
		u, err = v.ctrl.PointerMove(local, vp.Size())
	case interaction.LeaveEvent:
		u, err = v.ctrl.PointerLeave()
	default:
		return nil
	}
	if err != nil {
		return err
	}
	v.apply(u)
	return nil
}

func (v *Viewer) apply(u interaction.Update) {
	if u.Rendered {
		v.dirty = true
		v.log.Debug("hover changed", "board", u.Index)
	}

	v.tip = u.Tooltip
	if v.tip == nil || (v.tipImage != nil && v.tip.Content == v.tipContent) {
		return
	}
	if v.tipImage != nil {
		v.tipImage.Deallocate()
	}
	v.tipContent = v.tip.Content
	v.tipImage = ebiten.NewImageFromImage(v.panel.Draw(v.tip.Content))
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.dirty {
		v.scene.WritePixels(v.ctrl.Surface().Pix)
		v.dirty = false
	}

	screen.Fill(background)

	vp := v.viewport
	if vp.Rect.Empty() {
		return
	}

	b := v.scene.Bounds()
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
	op.GeoM.Scale(float64(vp.Rect.Dx())/float64(b.Dx()), float64(vp.Rect.Dy())/float64(b.Dy()))
	op.GeoM.Translate(float64(vp.Rect.Min.X), float64(vp.Rect.Min.Y))
	screen.DrawImage(v.scene, op)

	if v.tip != nil && v.tipImage != nil {
		r := v.tip.Anchor.Rect(v.tipImage.Bounds().Size()).Add(vp.Rect.Min)
		top := &ebiten.DrawImageOptions{}
		top.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
		screen.DrawImage(v.tipImage, top)
	}

	sum := v.ctrl.Result().Summary()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Boards: %d  Total volume: %.4f m3", sum.TotalCount, sum.TotalVolume), 4, 4)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.outside = image.Pt(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
