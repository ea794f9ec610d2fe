package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type schemaProps map[string]interface{}

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

func objectSchema(props schemaProps, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}(props),
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var sessionProp = prop("string", "Session id returned by overlay_load")

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size.",
			InputSchema: objectSchema(schemaProps{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(schemaProps{
				"path": prop("string", "Absolute path to the image file"),
			}, "path"),
		},

		// Overlay Sessions
		{
			Name: "overlay_load",
			Description: "Open an overlay session for a photograph and its board analysis result. " +
				"The result is read from result_path or given inline as result. Returns the session id, " +
				"the summary totals and any payload validation warnings.",
			InputSchema: objectSchema(schemaProps{
				"image_path":  prop("string", "Absolute path to the photograph"),
				"result_path": prop("string", "Absolute path to the analysis result JSON"),
				"result":      prop("object", "Inline analysis result (total_volume, total_count, wooden_boards)"),
			}, "image_path"),
		},
		{
			Name:        "overlay_summary",
			Description: "Get the total volume and board count exactly as reported, plus a short listing of every board.",
			InputSchema: objectSchema(schemaProps{
				"session_id": sessionProp,
			}, "session_id"),
		},
		{
			Name: "overlay_render",
			Description: "Render the overlay scene as base64-encoded PNG. Without highlight the current hover " +
				"scene is returned; with highlight the given board is spotlighted without changing hover state.",
			InputSchema: objectSchema(schemaProps{
				"session_id": sessionProp,
				"highlight":  prop("integer", "Optional board index to spotlight"),
			}, "session_id"),
		},
		{
			Name: "overlay_pointer_move",
			Description: "Move the pointer to a display position. Coordinates are scaled from the display size " +
				"into image pixels before hit testing. Returns the hovered board, tooltip layout and whether the scene was redrawn.",
			InputSchema: objectSchema(schemaProps{
				"session_id":     sessionProp,
				"x":              prop("number", "Pointer X in display coordinates"),
				"y":              prop("number", "Pointer Y in display coordinates"),
				"display_width":  prop("number", "Displayed width of the image. Defaults to the image width"),
				"display_height": prop("number", "Displayed height of the image. Defaults to the image height"),
				"include_image":  propDefault("boolean", "Include the rendered scene as PNG when it was redrawn", false),
			}, "session_id", "x", "y"),
		},
		{
			Name:        "overlay_pointer_leave",
			Description: "Move the pointer off the image. Clears the hover state and redraws the scene without a highlight.",
			InputSchema: objectSchema(schemaProps{
				"session_id":    sessionProp,
				"include_image": propDefault("boolean", "Include the rendered scene as PNG", false),
			}, "session_id"),
		},
		{
			Name:        "overlay_hit_test",
			Description: "Find the board at an image-pixel position without changing hover state.",
			InputSchema: objectSchema(schemaProps{
				"session_id":     sessionProp,
				"x":              prop("number", "X in image pixels"),
				"y":              prop("number", "Y in image pixels"),
				"edge_threshold": prop("number", "Edge tolerance in pixels. Defaults to the server setting"),
			}, "session_id", "x", "y"),
		},
		{
			Name:        "overlay_board_info",
			Description: "Get one board's measurements, detection details, outline bounds and formatted tooltip text.",
			InputSchema: objectSchema(schemaProps{
				"session_id": sessionProp,
				"index":      prop("integer", "Board index in the analysis result"),
			}, "session_id", "index"),
		},
		{
			Name:        "overlay_board_crop",
			Description: "Crop the photograph to one board's outline bounds and return it as base64-encoded PNG.",
			InputSchema: objectSchema(schemaProps{
				"session_id": sessionProp,
				"index":      prop("integer", "Board index in the analysis result"),
				"padding":    propDefault("integer", "Pixels added around the outline bounds", 10),
				"scale":      propDefault("number", "Scale factor for the crop (e.g. 2.0 to double size)", 1.0),
			}, "session_id", "index"),
		},
		{
			Name:        "overlay_close",
			Description: "Close an overlay session and release its surface.",
			InputSchema: objectSchema(schemaProps{
				"session_id": sessionProp,
			}, "session_id"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
