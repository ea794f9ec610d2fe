package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/board-overlay-mcp/internal/config"
	"github.com/ironsheep/board-overlay-mcp/internal/imaging"
	"github.com/ironsheep/board-overlay-mcp/internal/interaction"
	"github.com/ironsheep/board-overlay-mcp/internal/render"
)

// ServerName and ServerVersion are reported in the initialize handshake.
const (
	ServerName    = "board-overlay-mcp"
	ServerVersion = "0.1.0"

	protocolVersion = "2024-11-05"
	maxRequestBytes = 16 << 20
)

// JSON-RPC error codes returned by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests for overlay sessions. It is not safe for concurrent use;
// Serve handles one request at a time.
type Server struct {
	cache    *imaging.ImageCache
	sessions map[string]*session
	renderer *render.SceneRenderer
	opts     interaction.Options
	log      *slog.Logger
}

// MCPRequest is one JSON-RPC request line. A request without an ID is a notification.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the JSON-RPC error object. Data holds the underlying Go error text.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func reply(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message, Data: data},
	}
}

// New creates a server using the outline style and tolerances from cfg.
func New(cfg config.Config, log *slog.Logger) (*Server, error) {
	style, err := render.StyleFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay style: %w", err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		cache:    imaging.NewImageCache(),
		sessions: make(map[string]*session),
		renderer: render.NewSceneRenderer(style),
		opts:     interaction.OptionsFrom(cfg),
		log:      log,
	}, nil
}

// Run serves stdin and stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve processes newline-delimited requests from r until EOF, writing responses to w.
// Requests are handled one at a time, so sessions never see concurrent events.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// inline analysis payloads
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)

	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("dropping malformed request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			s.log.Error("write response", "method", req.Method, "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	return nil
}

func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.Debug("request", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return reply(req.ID, map[string]interface{}{})
	default:
		return errorResponse(req.ID, codeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return reply(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
		"serverInfo":      map[string]interface{}{"name": ServerName, "version": ServerVersion},
	})
}
