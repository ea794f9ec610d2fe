package render

import (
	"image/color"

	"github.com/ironsheep/board-overlay-mcp/internal/config"
	"github.com/ironsheep/board-overlay-mcp/internal/imaging"
)

// Style controls outline and spotlight appearance. Colors are premultiplied.
type Style struct {
	OutlineColor   color.RGBA
	OutlineWidth   float64
	HighlightColor color.RGBA
	HighlightWidth float64
	ShadeColor     color.RGBA
}

// DefaultStyle draws white 2px outlines, a bright green 4px highlight and a 50% black shade.
func DefaultStyle() Style {
	return Style{
		OutlineColor:   color.RGBA{255, 255, 255, 255},
		OutlineWidth:   2,
		HighlightColor: color.RGBA{0, 255, 0, 255},
		HighlightWidth: 4,
		ShadeColor:     imaging.WithAlpha(color.RGBA{0, 0, 0, 255}, 0.5),
	}
}

// StyleFromConfig builds a Style from the configured hex colors and widths.
func StyleFromConfig(cfg config.Config) (Style, error) {
	outline, err := imaging.ParseColor(cfg.OutlineColor)
	if err != nil {
		return Style{}, err
	}
	highlight, err := imaging.ParseColor(cfg.HighlightColor)
	if err != nil {
		return Style{}, err
	}

	return Style{
		OutlineColor:   outline,
		OutlineWidth:   cfg.OutlineWidth,
		HighlightColor: highlight,
		HighlightWidth: cfg.HighlightWidth,
		ShadeColor:     imaging.WithAlpha(color.RGBA{0, 0, 0, 255}, cfg.OverlayAlpha),
	}, nil
}
