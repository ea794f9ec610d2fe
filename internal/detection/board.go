package detection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
)

// ErrEmptyPayload is returned when the payload contains no JSON document.
var ErrEmptyPayload = errors.New("empty analysis payload")

// Detection is the raw detector output for one board.
type Detection struct {
	// Confidence is the detector score in [0, 1].
	Confidence float64 `json:"confidence"`

	// ClassName is the detector class label, normally "board".
	ClassName string `json:"class_name"`

	// Points is the board outline in image-pixel coordinates.
	Points geometry.Polygon `json:"points"`
}

// Board is one analyzed wooden board. Lengths are in metres, volume in cubic metres.
type Board struct {
	Volume    float64   `json:"volume"`
	Height    float64   `json:"height"`
	Width     float64   `json:"width"`
	Length    float64   `json:"length"`
	Detection Detection `json:"detection"`
}

// AnalysisResult is the full payload for one analyzed image.
type AnalysisResult struct {
	TotalVolume float64 `json:"total_volume"`
	TotalCount  int     `json:"total_count"`
	Boards      []Board `json:"wooden_boards"`
}

// Summary is the totals panel shown next to the image. It is independent of hover state.
type Summary struct {
	TotalVolume float64 `json:"total_volume"`
	TotalCount  int     `json:"total_count"`
}

// Summary returns the totals exactly as provided by the detection service.
func (r *AnalysisResult) Summary() Summary {
	return Summary{TotalVolume: r.TotalVolume, TotalCount: r.TotalCount}
}

// Board returns a pointer to the board at index i, or nil when i is out of range.
func (r *AnalysisResult) Board(i int) *Board {
	if r == nil || i < 0 || i >= len(r.Boards) {
		return nil
	}
	return &r.Boards[i]
}

// IndexOf returns the position of b in Boards by pointer identity, or -1.
func (r *AnalysisResult) IndexOf(b *Board) int {
	if r == nil || b == nil {
		return -1
	}
	for i := range r.Boards {
		if &r.Boards[i] == b {
			return i
		}
	}
	return -1
}

// Decode reads one analysis payload from rd.
func Decode(rd io.Reader) (*AnalysisResult, error) {
	var result AnalysisResult
	if err := json.NewDecoder(rd).Decode(&result); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPayload
		}
		return nil, fmt.Errorf("failed to decode analysis payload: %w", err)
	}
	return &result, nil
}

// LoadFile decodes the analysis payload stored at path.
func LoadFile(path string) (*AnalysisResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open analysis payload: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Validate checks the payload invariants and returns one error per violation, in board
// order. A nil slice means the payload is well formed.
//
// Checked invariants:
//   - every polygon has at least three points
//   - every confidence lies in [0, 1]
//   - total_count equals the number of boards
func (r *AnalysisResult) Validate() []error {
	var problems []error
	for i, b := range r.Boards {
		if n := len(b.Detection.Points); n < 3 {
			problems = append(problems, fmt.Errorf("board %d: polygon has %d points, need at least 3", i, n))
		}
		if c := b.Detection.Confidence; c < 0 || c > 1 {
			problems = append(problems, fmt.Errorf("board %d: confidence %v outside [0,1]", i, c))
		}
	}
	if r.TotalCount != len(r.Boards) {
		problems = append(problems, fmt.Errorf("total_count %d does not match %d boards", r.TotalCount, len(r.Boards)))
	}
	return problems
}
