// Package server implements the MCP (Model Context Protocol) server for inspecting
// detected wooden boards on a photograph.
//
// The server reads one JSON-RPC 2.0 request per line from stdin and writes one response per
// line to stdout. It answers initialize, tools/list, tools/call and ping. Logs go to stderr.
//
// # Sessions
//
// overlay_load opens a session for one photograph and one analysis result and returns its
// id. Each session owns a rendering surface and a hover state, so pointer events sent to one
// session never affect another. Requests are handled sequentially on the read loop.
//
// # Tools
//
//   - image_load, image_dimensions: photograph metadata
//   - overlay_load, overlay_close: session lifecycle
//   - overlay_summary: totals as reported plus a board listing
//   - overlay_render: current scene, or a spotlight on one board, as PNG
//   - overlay_pointer_move, overlay_pointer_leave: hover at a display position, or clear it
//   - overlay_hit_test: board at an image position, without side effects
//   - overlay_board_info: one board's measurements and tooltip text
//   - overlay_board_crop: one board's bounding box as PNG
//
// # Errors
//
// Malformed tools/call params get -32602, unknown methods -32601 and failing tools -32000
// with the Go error text in data. Problems found in an analysis payload (short polygons,
// confidence out of range, a total_count that disagrees with the board list) do not fail
// overlay_load. They are logged and returned as warnings.
package server
