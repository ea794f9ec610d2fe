package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPayload = `{
  "total_volume": 0.12,
  "total_count": 2,
  "wooden_boards": [
    {"volume": 0.05, "height": 0.02, "width": 0.1, "length": 2.0,
     "detection": {"confidence": 0.91, "class_name": "board",
       "points": [{"x":10,"y":10},{"x":40,"y":10},{"x":40,"y":40},{"x":10,"y":40}]}},
    {"volume": 0.07, "height": 0.025, "width": 0.12, "length": 2.5,
     "detection": {"confidence": 0.85, "class_name": "board",
       "points": [{"x":60,"y":10},{"x":90,"y":10},{"x":90,"y":40},{"x":60,"y":40}]}}
  ]
}`

// createTestImageFile writes a solid PNG into a temp dir and returns its path.
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs a tools/call request and decodes the text content into out.
func callTool(t *testing.T, s *Server, name string, args interface{}, out interface{}) *MCPError {
	t.Helper()

	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	params, _ := json.Marshal(ToolCallParams{Name: name, Arguments: argsJSON})

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
			t.Fatalf("decode %s result: %v", name, err)
		}
	}
	return nil
}

func openSession(t *testing.T, s *Server) (string, OverlayLoadResult) {
	t.Helper()
	imgPath := createTestImageFile(t, 100, 60, color.RGBA{150, 100, 50, 255})

	var res OverlayLoadResult
	if e := callTool(t, s, "overlay_load", map[string]interface{}{
		"image_path": imgPath,
		"result":     json.RawMessage(testPayload),
	}, &res); e != nil {
		t.Fatalf("overlay_load failed: %+v", e)
	}
	return res.SessionID, res
}

func decodePNG(t *testing.T, b64 string) image.Image {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	var info struct {
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Format   string `json:"format"`
		FileSize string `json:"file_size"`
	}
	if e := callTool(t, s, "image_load", map[string]string{"path": imgPath}, &info); e != nil {
		t.Fatalf("image_load failed: %+v", e)
	}
	if info.Width != 100 || info.Height != 80 || info.Format != "png" {
		t.Errorf("unexpected info: %+v", info)
	}
	if !strings.HasSuffix(info.FileSize, "B") {
		t.Errorf("file size should be human readable, got %q", info.FileSize)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)

	t.Run("unknown tool", func(t *testing.T) {
		e := callTool(t, s, "image_ocr_full", map[string]string{}, nil)
		if e == nil || e.Code != -32000 {
			t.Errorf("expected -32000, got %+v", e)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: json.RawMessage(`[1,2]`)})
		if resp.Error == nil || resp.Error.Code != -32602 {
			t.Errorf("expected -32602, got %+v", resp.Error)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		e := callTool(t, s, "overlay_summary", map[string]string{"session_id": "nope"}, nil)
		if e == nil || !strings.Contains(e.Data.(string), ErrUnknownSession.Error()) {
			t.Errorf("expected unknown session error, got %+v", e)
		}
	})

	t.Run("missing result", func(t *testing.T) {
		imgPath := createTestImageFile(t, 10, 10, color.White)
		e := callTool(t, s, "overlay_load", map[string]string{"image_path": imgPath}, nil)
		if e == nil {
			t.Error("expected error without result or result_path")
		}
	})
}

func TestOverlayLoad(t *testing.T) {
	s := newTestServer(t)
	id, res := openSession(t, s)

	if id == "" {
		t.Fatal("missing session id")
	}
	if res.Width != 100 || res.Height != 60 {
		t.Errorf("size: got %dx%d, want 100x60", res.Width, res.Height)
	}
	if res.Summary.TotalVolume != 0.12 || res.Summary.TotalCount != 2 {
		t.Errorf("summary: got %+v", res.Summary)
	}
	if res.BoardCount != 2 || len(res.Warnings) != 0 {
		t.Errorf("boards %d, warnings %v", res.BoardCount, res.Warnings)
	}
}

func TestOverlayLoad_FromFileWithWarnings(t *testing.T) {
	s := newTestServer(t)
	imgPath := createTestImageFile(t, 50, 50, color.White)

	payload := `{"total_volume": 0.01, "total_count": 3, "wooden_boards": [
	  {"volume": 0.01, "detection": {"confidence": 0.5, "class_name": "board",
	    "points": [{"x":1,"y":1},{"x":5,"y":1}]}}]}`
	resultPath := filepath.Join(t.TempDir(), "result.json")
	if err := os.WriteFile(resultPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	var res OverlayLoadResult
	if e := callTool(t, s, "overlay_load", map[string]string{
		"image_path":  imgPath,
		"result_path": resultPath,
	}, &res); e != nil {
		t.Fatalf("overlay_load failed: %+v", e)
	}
	if len(res.Warnings) != 2 {
		t.Errorf("warnings: got %v, want 2 (short polygon, count mismatch)", res.Warnings)
	}
	if res.Summary.TotalCount != 3 {
		t.Errorf("summary must be reported as provided, got %+v", res.Summary)
	}
}

func TestOverlaySummary(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	var res OverlaySummaryResult
	if e := callTool(t, s, "overlay_summary", map[string]string{"session_id": id}, &res); e != nil {
		t.Fatalf("overlay_summary failed: %+v", e)
	}
	if res.TotalVolume != 0.12 || res.TotalCount != 2 {
		t.Errorf("totals: got %+v", res.Summary)
	}
	if len(res.Boards) != 2 || res.Boards[1].Bounds != (Rect{60, 10, 90, 40}) {
		t.Errorf("listing: got %+v", res.Boards)
	}
}

func TestOverlayPointerFlow(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	move := func(x, y float64) PointerResult {
		t.Helper()
		var res PointerResult
		if e := callTool(t, s, "overlay_pointer_move", map[string]interface{}{
			"session_id":     id,
			"x":              x,
			"y":              y,
			"display_width":  200,
			"display_height": 120,
			"include_image":  true,
		}, &res); e != nil {
			t.Fatalf("overlay_pointer_move failed: %+v", e)
		}
		return res
	}

	// Display is twice the image size, so (50,50) is image (25,25) in board 0.
	first := move(50, 50)
	if first.BoardIndex != 0 || !first.Hovered || !first.Rendered {
		t.Fatalf("first move: got %+v", first)
	}
	if first.ImagePosition == nil || first.ImagePosition.X != 25 {
		t.Errorf("image position: got %+v", first.ImagePosition)
	}
	if first.Tooltip == nil || first.Tooltip.Content.Volume != "0.0500 m³" {
		t.Errorf("tooltip: got %+v", first.Tooltip)
	}
	if first.ImageBase64 == "" {
		t.Error("expected a rendered image after a highlight change")
	}

	again := move(52, 50)
	if again.BoardIndex != 0 || again.Rendered || again.ImageBase64 != "" {
		t.Errorf("same-board move should not redraw: %+v", again)
	}

	second := move(150, 50)
	if second.BoardIndex != 1 || !second.Rendered {
		t.Errorf("second board: got %+v", second)
	}

	var left PointerResult
	if e := callTool(t, s, "overlay_pointer_leave", map[string]interface{}{"session_id": id}, &left); e != nil {
		t.Fatalf("overlay_pointer_leave failed: %+v", e)
	}
	if left.Hovered || left.BoardIndex != -1 || !left.Rendered {
		t.Errorf("leave: got %+v", left)
	}
}

func TestOverlayPointerMove_DisplaySize(t *testing.T) {
	tests := []struct {
		name    string
		args    map[string]interface{}
		hovered bool
		wantErr bool
	}{
		{"both omitted", map[string]interface{}{}, true, false},
		{"width only", map[string]interface{}{"display_width": 100}, true, false},
		{"height only", map[string]interface{}{"display_height": 60}, true, false},
		{"negative", map[string]interface{}{"display_width": -100, "display_height": -60}, false, true},
		{"negative width", map[string]interface{}{"display_width": -100}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			id, _ := openSession(t, s)

			// (12,12) lies inside board 0 at image scale.
			args := map[string]interface{}{"session_id": id, "x": 12, "y": 12}
			for k, v := range tt.args {
				args[k] = v
			}

			var res PointerResult
			e := callTool(t, s, "overlay_pointer_move", args, &res)
			if tt.wantErr {
				if e == nil || e.Code != -32000 {
					t.Fatalf("expected a tool error, got %+v (result %+v)", e, res)
				}
				if !s.sessions[id].ctrl.State().Idle() {
					t.Error("rejected move must not change hover state")
				}
				return
			}
			if e != nil {
				t.Fatalf("overlay_pointer_move failed: %+v", e)
			}
			if res.Hovered != tt.hovered || res.BoardIndex != 0 {
				t.Errorf("got %+v, want board 0 hovered", res)
			}
		})
	}
}

func TestOverlayRender(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	var base OverlayRenderResult
	if e := callTool(t, s, "overlay_render", map[string]string{"session_id": id}, &base); e != nil {
		t.Fatalf("overlay_render failed: %+v", e)
	}
	if base.Highlighted != -1 || base.Width != 100 || base.Height != 60 {
		t.Errorf("baseline: got %+v", base)
	}

	var lit OverlayRenderResult
	if e := callTool(t, s, "overlay_render", map[string]interface{}{"session_id": id, "highlight": 1}, &lit); e != nil {
		t.Fatalf("overlay_render with highlight failed: %+v", e)
	}
	if lit.Highlighted != 1 {
		t.Errorf("highlighted: got %d, want 1", lit.Highlighted)
	}

	img := decodePNG(t, lit.ImageBase64)
	inside := color.RGBAModel.Convert(img.At(75, 25)).(color.RGBA)
	outside := color.RGBAModel.Convert(img.At(50, 55)).(color.RGBA)
	if inside.R != 150 {
		t.Errorf("spotlit board should keep full brightness, got %v", inside)
	}
	if outside.R >= 100 {
		t.Errorf("background should be shaded, got %v", outside)
	}

	// An explicit highlight does not change hover state.
	if sess := s.sessions[id]; !sess.ctrl.State().Idle() {
		t.Error("overlay_render with highlight must not change hover state")
	}

	if e := callTool(t, s, "overlay_render", map[string]interface{}{"session_id": id, "highlight": 5}, nil); e == nil {
		t.Error("expected error for out of range highlight")
	}
}

func TestOverlayHitTest(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	tests := []struct {
		name      string
		x, y      float64
		threshold *float64
		want      HitTestResult
	}{
		{"inside first", 20, 20, nil, HitTestResult{BoardIndex: 0, Hit: true, Inside: true}},
		{"near edge of second", 55, 20, nil, HitTestResult{BoardIndex: 1, Hit: true, NearEdge: true}},
		{"gap with tight threshold", 55, 20, ptr(1.0), HitTestResult{BoardIndex: -1}},
		{"far away", 50, 58, nil, HitTestResult{BoardIndex: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := map[string]interface{}{"session_id": id, "x": tt.x, "y": tt.y}
			if tt.threshold != nil {
				args["edge_threshold"] = *tt.threshold
			}
			var got HitTestResult
			if e := callTool(t, s, "overlay_hit_test", args, &got); e != nil {
				t.Fatalf("overlay_hit_test failed: %+v", e)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestOverlayBoardInfo(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	var info BoardInfoResult
	if e := callTool(t, s, "overlay_board_info", map[string]interface{}{"session_id": id, "index": 1}, &info); e != nil {
		t.Fatalf("overlay_board_info failed: %+v", e)
	}
	if info.Board == nil || info.Board.Volume != 0.07 {
		t.Fatalf("board: got %+v", info.Board)
	}
	if info.Content.Width != "12.0 cm" || info.Content.Confidence != "85.0%" {
		t.Errorf("content: got %+v", info.Content)
	}

	if e := callTool(t, s, "overlay_board_info", map[string]interface{}{"session_id": id, "index": -1}, nil); e == nil {
		t.Error("expected error for negative index")
	}
}

func TestOverlayBoardCrop(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	var crop struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
	}
	if e := callTool(t, s, "overlay_board_crop", map[string]interface{}{
		"session_id": id, "index": 0, "padding": 5, "scale": 2.0,
	}, &crop); e != nil {
		t.Fatalf("overlay_board_crop failed: %+v", e)
	}
	// (10,10)-(40,40) grown by 5 is 40x40, doubled to 80x80.
	if crop.Width != 80 || crop.Height != 80 {
		t.Errorf("crop size: got %dx%d, want 80x80", crop.Width, crop.Height)
	}
	if got := decodePNG(t, crop.ImageBase64).Bounds().Size(); got != image.Pt(80, 80) {
		t.Errorf("decoded size: got %v", got)
	}
}

func TestOverlayClose(t *testing.T) {
	s := newTestServer(t)
	id, _ := openSession(t, s)

	if e := callTool(t, s, "overlay_close", map[string]string{"session_id": id}, nil); e != nil {
		t.Fatalf("overlay_close failed: %+v", e)
	}
	if _, err := s.session(id); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("session should be gone, got %v", err)
	}
	if e := callTool(t, s, "overlay_close", map[string]string{"session_id": id}, nil); e == nil {
		t.Error("closing twice should fail")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s := newTestServer(t)
	a, _ := openSession(t, s)
	b, _ := openSession(t, s)

	if a == b {
		t.Fatal("session ids must be unique")
	}
	if e := callTool(t, s, "overlay_pointer_move", map[string]interface{}{"session_id": a, "x": 20, "y": 20}, nil); e != nil {
		t.Fatalf("move failed: %+v", e)
	}
	if s.sessions[a].ctrl.State().Idle() {
		t.Error("session a should be hovering")
	}
	if !s.sessions[b].ctrl.State().Idle() {
		t.Error("session b should be unaffected")
	}
}
