package imaging

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA" into a premultiplied RGBA color.
//
// The RGB part is decoded by go-colorful; the optional trailing alpha byte is applied on
// top of it. The leading '#' may be omitted.
//
// # Example
//
//	green, _ := imaging.ParseColor("#00FF00")
//	shade, _ := imaging.ParseColor("#00000080") // 50% black
func ParseColor(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}

	alpha := uint8(255)
	if len(s) == 8 {
		a, err := strconv.ParseUint(s[6:], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		s = s[:6]
	}

	c, err := colorful.Hex("#" + s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	r, g, b := c.RGB255()
	return color.RGBAModel.Convert(color.NRGBA{R: r, G: g, B: b, A: alpha}).(color.RGBA), nil
}

// WithAlpha returns c with its opacity replaced by alpha in [0, 1].
// The input is treated as opaque; the result is premultiplied.
func WithAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	a := uint8(alpha*255 + 0.5)
	return color.RGBAModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}).(color.RGBA)
}

// HexString formats c as "#RRGGBB", dropping alpha.
func HexString(c color.Color) string {
	cf, _ := colorful.MakeColor(opaque(c))
	return strings.ToUpper(cf.Hex())
}

// opaque drops alpha so colorful.MakeColor never sees a transparent color.
func opaque(c color.Color) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
