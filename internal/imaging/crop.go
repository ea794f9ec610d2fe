package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// CropResult contains a cropped board region as base64 PNG.
type CropResult struct {
	// Region is the cropped rectangle in source image pixels.
	Region      image.Rectangle `json:"region"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	ImageBase64 string          `json:"image_base64"`
	MimeType    string          `json:"mime_type"`
}

// CropBoard extracts the bounding box of a board outline, grown by padding pixels on
// every side and clipped to the image, optionally scaled.
//
// Parameters:
//   - img: The source photograph.
//   - outline: The board polygon in image-pixel coordinates.
//   - padding: Extra pixels around the bounding box. Negative values are treated as 0.
//   - scale: Resize factor applied after cropping. Values <= 0 or 1.0 leave the size unchanged.
//
// Returns an error when the padded bounding box does not intersect the image.
func CropBoard(img image.Image, outline geometry.Polygon, padding int, scale float64) (*CropResult, error) {
	if padding < 0 {
		padding = 0
	}

	region := outline.Bounds().Inset(-padding).Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("board outline %v lies outside image bounds %v", outline.Bounds(), img.Bounds())
	}

	cropped := imaging.Crop(img, region)

	if scale != 1.0 && scale > 0 {
		newWidth := max(1, int(float64(cropped.Bounds().Dx())*scale))
		newHeight := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	encoded, err := EncodePNG(cropped)
	if err != nil {
		return nil, err
	}

	return &CropResult{
		Region:      region,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// EncodePNG encodes img as PNG and returns it base64 encoded.
func EncodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
