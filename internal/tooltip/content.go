package tooltip

import (
	"fmt"

	"github.com/ironsheep/board-overlay-mcp/internal/detection"
)

// Content is the formatted text of a board's information panel.
type Content struct {
	Volume     string `json:"volume"`
	Width      string `json:"width"`
	Height     string `json:"height"`
	Length     string `json:"length"`
	Confidence string `json:"confidence"`

	// ConfidenceFill is the filled fraction of the confidence bar, clamped to [0, 1].
	ConfidenceFill float64 `json:"confidence_fill"`
}

// ContentFor formats b. Dimensions are converted from metres to centimetres.
func ContentFor(b *detection.Board) Content {
	conf := b.Detection.Confidence
	return Content{
		Volume:         fmt.Sprintf("%.4f m³", b.Volume),
		Width:          centimetres(b.Width),
		Height:         centimetres(b.Height),
		Length:         centimetres(b.Length),
		Confidence:     fmt.Sprintf("%.1f%%", conf*100),
		ConfidenceFill: min(max(conf, 0), 1),
	}
}

func centimetres(m float64) string {
	return fmt.Sprintf("%.1f cm", m*100)
}

// Lines returns the labelled rows in display order.
func (c Content) Lines() []string {
	return []string{
		"Volume: " + c.Volume,
		"Width: " + c.Width,
		"Height: " + c.Height,
		"Length: " + c.Length,
		"Confidence: " + c.Confidence,
	}
}
