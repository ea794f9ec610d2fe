package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/board-overlay-mcp/internal/detection"
	"github.com/ironsheep/board-overlay-mcp/internal/geometry"
	"github.com/ironsheep/board-overlay-mcp/internal/hittest"
	"github.com/ironsheep/board-overlay-mcp/internal/imaging"
	"github.com/ironsheep/board-overlay-mcp/internal/interaction"
	"github.com/ironsheep/board-overlay-mcp/internal/render"
	"github.com/ironsheep/board-overlay-mcp/internal/tooltip"
)

const pngMime = "image/png"

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "overlay_load", "overlay_pointer_move").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool failed", "tool", params.Name, "error", err)
		return errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return reply(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Overlay Sessions
	case "overlay_load":
		return s.handleOverlayLoad(args)
	case "overlay_summary":
		return s.handleOverlaySummary(args)
	case "overlay_render":
		return s.handleOverlayRender(args)
	case "overlay_pointer_move":
		return s.handleOverlayPointerMove(args)
	case "overlay_pointer_leave":
		return s.handleOverlayPointerLeave(args)
	case "overlay_hit_test":
		return s.handleOverlayHitTest(args)
	case "overlay_board_info":
		return s.handleOverlayBoardInfo(args)
	case "overlay_board_crop":
		return s.handleOverlayBoardCrop(args)
	case "overlay_close":
		return s.handleOverlayClose(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Overlay Session Handlers ===

// Rect is an integer rectangle, max exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

type overlayLoadArgs struct {
	ImagePath  string          `json:"image_path"`
	ResultPath string          `json:"result_path"`
	Result     json.RawMessage `json:"result"`
}

// OverlayLoadResult describes a newly opened session.
type OverlayLoadResult struct {
	SessionID  string            `json:"session_id"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Summary    detection.Summary `json:"summary"`
	BoardCount int               `json:"board_count"`
	Warnings   []string          `json:"warnings,omitempty"`
}

func (s *Server) handleOverlayLoad(args json.RawMessage) (interface{}, error) {
	var a overlayLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var (
		result *detection.AnalysisResult
		err    error
	)
	switch {
	case len(a.Result) > 0 && !bytes.Equal(a.Result, []byte("null")):
		result, err = detection.Decode(bytes.NewReader(a.Result))
	case a.ResultPath != "":
		result, err = detection.LoadFile(a.ResultPath)
	default:
		return nil, errors.New("either result or result_path is required")
	}
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.ImagePath)
	if err != nil {
		return nil, err
	}

	ctrl := interaction.New(s.renderer, s.opts)
	if err := ctrl.SetSource(img, result); err != nil {
		return nil, err
	}
	sess := s.openSession(a.ImagePath, ctrl)

	var warnings []string
	for _, problem := range result.Validate() {
		s.log.Warn("analysis payload problem", "session", sess.id, "problem", problem)
		warnings = append(warnings, problem.Error())
	}

	size := ctrl.Image().Bounds().Size()
	s.log.Info("overlay session opened", "session", sess.id, "image", a.ImagePath, "boards", len(result.Boards))

	return &OverlayLoadResult{
		SessionID:  sess.id,
		Width:      size.X,
		Height:     size.Y,
		Summary:    result.Summary(),
		BoardCount: len(result.Boards),
		Warnings:   warnings,
	}, nil
}

// BoardListing is one row of the summary board list.
type BoardListing struct {
	Index      int     `json:"index"`
	Volume     float64 `json:"volume"`
	Confidence float64 `json:"confidence"`
	ClassName  string  `json:"class_name"`
	Bounds     Rect    `json:"bounds"`
}

// OverlaySummaryResult is the summary panel plus a board listing.
type OverlaySummaryResult struct {
	detection.Summary
	ImagePath string         `json:"image_path"`
	Boards    []BoardListing `json:"boards"`
}

func (s *Server) handleOverlaySummary(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}

	result := sess.ctrl.Result()
	listing := make([]BoardListing, len(result.Boards))
	for i, b := range result.Boards {
		listing[i] = BoardListing{
			Index:      i,
			Volume:     b.Volume,
			Confidence: b.Detection.Confidence,
			ClassName:  b.Detection.ClassName,
			Bounds:     rectOf(b.Detection.Points.Bounds()),
		}
	}

	return &OverlaySummaryResult{
		Summary:   result.Summary(),
		ImagePath: sess.imagePath,
		Boards:    listing,
	}, nil
}

type overlayRenderArgs struct {
	SessionID string `json:"session_id"`
	Highlight *int   `json:"highlight"`
}

// OverlayRenderResult is a rendered scene.
type OverlayRenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Highlighted int    `json:"highlighted"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleOverlayRender(args json.RawMessage) (interface{}, error) {
	var a overlayRenderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}

	ctrl := sess.ctrl
	surface := ctrl.Surface()
	highlighted := ctrl.Result().IndexOf(ctrl.State().Board)

	if a.Highlight != nil {
		b, err := sess.board(*a.Highlight)
		if err != nil {
			return nil, err
		}
		surface = render.NewSurface(ctrl.Image())
		if err := s.renderer.Render(surface, ctrl.Image(), ctrl.Result().Boards, b); err != nil {
			return nil, err
		}
		highlighted = *a.Highlight
	}

	encoded, err := imaging.EncodePNG(surface)
	if err != nil {
		return nil, err
	}
	return &OverlayRenderResult{
		Width:       surface.Bounds().Dx(),
		Height:      surface.Bounds().Dy(),
		Highlighted: highlighted,
		ImageBase64: encoded,
		MimeType:    pngMime,
	}, nil
}

type overlayPointerMoveArgs struct {
	SessionID     string  `json:"session_id"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	DisplayWidth  float64 `json:"display_width"`
	DisplayHeight float64 `json:"display_height"`
	IncludeImage  bool    `json:"include_image"`
}

// PointerResult reports the outcome of a pointer event.
type PointerResult struct {
	BoardIndex    int                  `json:"board_index"`
	Hovered       bool                 `json:"hovered"`
	ImagePosition *geometry.Point      `json:"image_position,omitempty"`
	Rendered      bool                 `json:"rendered"`
	Tooltip       *interaction.Tooltip `json:"tooltip,omitempty"`
	ImageBase64   string               `json:"image_base64,omitempty"`
	MimeType      string               `json:"mime_type,omitempty"`
}

func (s *Server) pointerResult(ctrl *interaction.Controller, u interaction.Update, includeImage bool) (*PointerResult, error) {
	res := &PointerResult{
		BoardIndex:    u.Index,
		Hovered:       u.Board != nil,
		ImagePosition: u.Pointer,
		Rendered:      u.Rendered,
		Tooltip:       u.Tooltip,
	}
	if includeImage && u.Rendered {
		encoded, err := imaging.EncodePNG(ctrl.Surface())
		if err != nil {
			return nil, err
		}
		res.ImageBase64 = encoded
		res.MimeType = pngMime
	}
	return res, nil
}

func (s *Server) handleOverlayPointerMove(args json.RawMessage) (interface{}, error) {
	var a overlayPointerMoveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}

	// An omitted axis is displayed at image scale.
	display := geometry.Size{Width: a.DisplayWidth, Height: a.DisplayHeight}
	natural := sess.ctrl.ImageSize()
	if display.Width == 0 {
		display.Width = natural.Width
	}
	if display.Height == 0 {
		display.Height = natural.Height
	}

	u, err := sess.ctrl.PointerMove(geometry.Pt(a.X, a.Y), display)
	if err != nil {
		return nil, err
	}
	return s.pointerResult(sess.ctrl, u, a.IncludeImage)
}

type overlayPointerLeaveArgs struct {
	SessionID    string `json:"session_id"`
	IncludeImage bool   `json:"include_image"`
}

func (s *Server) handleOverlayPointerLeave(args json.RawMessage) (interface{}, error) {
	var a overlayPointerLeaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}

	u, err := sess.ctrl.PointerLeave()
	if err != nil {
		return nil, err
	}
	return s.pointerResult(sess.ctrl, u, a.IncludeImage)
}

type overlayHitTestArgs struct {
	SessionID     string   `json:"session_id"`
	X             float64  `json:"x"`
	Y             float64  `json:"y"`
	EdgeThreshold *float64 `json:"edge_threshold"`
}

// HitTestResult reports which board, if any, lies at an image position.
type HitTestResult struct {
	BoardIndex int  `json:"board_index"`
	Hit        bool `json:"hit"`
	Inside     bool `json:"inside"`
	NearEdge   bool `json:"near_edge"`
}

func (s *Server) handleOverlayHitTest(args json.RawMessage) (interface{}, error) {
	var a overlayHitTestArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}

	threshold := s.opts.EdgeThreshold
	if a.EdgeThreshold != nil {
		threshold = *a.EdgeThreshold
	}

	p := geometry.Pt(a.X, a.Y)
	boards := sess.ctrl.Result().Boards
	idx := hittest.FindIndex(p, boards, threshold)

	res := &HitTestResult{BoardIndex: idx, Hit: idx >= 0}
	if res.Hit {
		poly := boards[idx].Detection.Points
		res.Inside = geometry.IsPointInPolygon(p, poly)
		res.NearEdge = geometry.IsNearPolygonEdge(p, poly, threshold)
	}
	return res, nil
}

type overlayBoardArgs struct {
	SessionID string `json:"session_id"`
	Index     int    `json:"index"`
}

// BoardInfoResult is one board with its formatted tooltip text.
type BoardInfoResult struct {
	Index   int              `json:"index"`
	Board   *detection.Board `json:"board"`
	Bounds  Rect             `json:"bounds"`
	Content tooltip.Content  `json:"content"`
}

func (s *Server) handleOverlayBoardInfo(args json.RawMessage) (interface{}, error) {
	var a overlayBoardArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}
	b, err := sess.board(a.Index)
	if err != nil {
		return nil, err
	}

	return &BoardInfoResult{
		Index:   a.Index,
		Board:   b,
		Bounds:  rectOf(b.Detection.Points.Bounds()),
		Content: tooltip.ContentFor(b),
	}, nil
}

type overlayBoardCropArgs struct {
	SessionID string  `json:"session_id"`
	Index     int     `json:"index"`
	Padding   *int    `json:"padding"`
	Scale     float64 `json:"scale"`
}

func (s *Server) handleOverlayBoardCrop(args json.RawMessage) (interface{}, error) {
	var a overlayBoardCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	padding := 10
	if a.Padding != nil {
		padding = *a.Padding
	}

	sess, err := s.session(a.SessionID)
	if err != nil {
		return nil, err
	}
	b, err := sess.board(a.Index)
	if err != nil {
		return nil, err
	}
	return imaging.CropBoard(sess.ctrl.Image(), b.Detection.Points, padding, a.Scale)
}

func (s *Server) handleOverlayClose(args json.RawMessage) (interface{}, error) {
	var a sessionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.closeSession(a.SessionID); err != nil {
		return nil, err
	}
	s.log.Info("overlay session closed", "session", a.SessionID)
	return map[string]interface{}{"session_id": a.SessionID, "closed": true}, nil
}
