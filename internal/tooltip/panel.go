package tooltip

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	panelBackground = color.NRGBA{20, 20, 20, 230}
	panelText       = color.NRGBA{255, 255, 255, 255}
	barTrack        = color.NRGBA{80, 80, 80, 255}
	barFill         = color.NRGBA{0, 200, 0, 255}
)

// Panel draws Content into a small raster using Go Regular.
type Panel struct {
	face      font.Face
	padding   int
	barHeight int
	ascent    int
	lineH     int
}

// NewPanel returns a panel renderer with text at size points (72 DPI).
func NewPanel(size float64) (*Panel, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}

	m := face.Metrics()
	return &Panel{
		face:      face,
		padding:   8,
		barHeight: 6,
		ascent:    m.Ascent.Ceil(),
		lineH:     m.Height.Ceil() + 2,
	}, nil
}

// Close releases the font face.
func (p *Panel) Close() error {
	return p.face.Close()
}

// Size returns the pixel size of the panel for c.
func (p *Panel) Size(c Content) image.Point {
	w := 0
	lines := c.Lines()
	for _, line := range lines {
		w = max(w, font.MeasureString(p.face, line).Ceil())
	}
	h := len(lines)*p.lineH + p.barHeight + 4
	return image.Pt(w+2*p.padding, h+2*p.padding)
}

// Draw renders c: one text row per line followed by the confidence bar.
func (p *Panel) Draw(c Content) *image.NRGBA {
	size := p.Size(c)
	img := imaging.New(size.X, size.Y, panelBackground)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(panelText),
		Face: p.face,
	}
	y := p.padding
	for _, line := range c.Lines() {
		d.Dot = fixed.Point26_6{X: fixed.I(p.padding), Y: fixed.I(y + p.ascent)}
		d.DrawString(line)
		y += p.lineH
	}

	track := p.BarRect(c)
	draw.Draw(img, track, image.NewUniform(barTrack), image.Point{}, draw.Src)

	fill := track
	fill.Max.X = track.Min.X + int(float64(track.Dx())*c.ConfidenceFill+0.5)
	draw.Draw(img, fill, image.NewUniform(barFill), image.Point{}, draw.Src)

	return img
}

// BarRect returns the confidence bar track inside a panel drawn for c.
func (p *Panel) BarRect(c Content) image.Rectangle {
	size := p.Size(c)
	y := p.padding + len(c.Lines())*p.lineH + 4
	return image.Rect(p.padding, y, size.X-p.padding, y+p.barHeight)
}
