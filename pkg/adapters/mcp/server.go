package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// KeysURI is the resource listing the keypad vocabulary.
const KeysURI = "abacus://keys"

// SessionResponse is the tool view of a session.
type SessionResponse struct {
	SessionID  string `json:"session_id" jsonschema_description:"Session identifier"`
	Equation   string `json:"equation" jsonschema_description:"Equation as typed on the keypad"`
	Result     string `json:"result" jsonschema_description:"Live preview or final result; empty while the equation is incomplete"`
	AngleMode  string `json:"angle_mode" jsonschema_description:"RAD or DEG"`
	LastResult string `json:"last_result" jsonschema_description:"Value recalled by the ANS key"`
	Status     string `json:"status" jsonschema_description:"normal or error"`
	Message    string `json:"message,omitempty" jsonschema_description:"Error message when status is error"`
}

// EvaluateResponse is the result of the evaluate tool.
type EvaluateResponse struct {
	Result    string `json:"result" jsonschema_description:"Formatted value"`
	Canonical string `json:"canonical" jsonschema_description:"Expression after keypad normalization"`
}

// ClearResponse is the result of the clear_session tool.
type ClearResponse struct {
	Deleted bool             `json:"deleted"`
	State   *SessionResponse `json:"state,omitempty"`
}

// Calculator is the part of abacus.Calculator exposed as tools.
type Calculator interface {
	PressKeys(ctx context.Context, sessionID, line string) (*domain.State, error)
	State(ctx context.Context, sessionID string) (*domain.State, error)
	Reset(ctx context.Context, sessionID string) (*domain.State, error)
	Delete(ctx context.Context, sessionID string) error
	Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (abacus.Evaluation, error)
}

// Server wraps a Calculator and exposes it as an MCP Server.
type Server struct {
	calc      Calculator
	mcpServer *server.MCPServer
	sanitizer runner.Sanitizer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for rejected calls.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize bounds the keys and expression arguments.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.sanitizer = runner.Sanitizer{MaxSize: n}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(calc Calculator, opts ...Option) *Server {
	s := &Server{
		calc:      calc,
		mcpServer: server.NewMCPServer("abacus-mcp", abacus.Version, server.WithToolCapabilities(true)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in a session, e.g. \"sin(30)=\" or \"7×6=\". "+
			"The session is created on first use. Read "+KeysURI+" for the key vocabulary."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press, as typed on the keypad")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handlePressKeys))

	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an expression once without touching any session."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression in keypad notation")),
		mcp.WithString("angle_mode",
			mcp.Description("Angle unit for trigonometric functions"),
			mcp.Enum("RAD", "DEG"),
			mcp.DefaultString("RAD"),
		),
		mcp.WithOutputSchema[EvaluateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Read the current state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetSession))

	s.mcpServer.AddTool(mcp.NewTool("clear_session",
		mcp.WithDescription("Clear a session as the AC key does, or delete it."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithBoolean("delete", mcp.Description("Remove the session instead of clearing it")),
		mcp.WithOutputSchema[ClearResponse](),
	), mcp.NewStructuredToolHandler(s.handleClearSession))
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	keys, _ := args["keys"].(string)

	clean, err := s.sanitizer.Clean(keys)
	if err != nil {
		s.logger.Warn("MCP press_keys: Input rejected", "err", err, "size", len(keys))
		return SessionResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	state, err := s.calc.PressKeys(ctx, id, clean)
	if err != nil {
		return SessionResponse{}, err
	}
	return toResponse(state), nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResponse, error) {
	expression, _ := args["expression"].(string)
	mode := domain.Radians
	if text, ok := args["angle_mode"].(string); ok && text != "" {
		var err error
		if mode, err = domain.ParseAngleMode(text); err != nil {
			return EvaluateResponse{}, err
		}
	}

	clean, err := s.sanitizer.Clean(expression)
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	out, err := s.calc.Evaluate(ctx, clean, mode)
	if err != nil {
		return EvaluateResponse{}, err
	}
	return EvaluateResponse{Result: out.Result, Canonical: out.Canonical}, nil
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	id, _ := args["session_id"].(string)
	state, err := s.calc.State(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	return toResponse(state), nil
}

func (s *Server) handleClearSession(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ClearResponse, error) {
	id, _ := args["session_id"].(string)
	if del, _ := args["delete"].(bool); del {
		if err := s.calc.Delete(ctx, id); err != nil {
			return ClearResponse{}, err
		}
		return ClearResponse{Deleted: true}, nil
	}

	state, err := s.calc.Reset(ctx, id)
	if err != nil {
		return ClearResponse{}, err
	}
	resp := toResponse(state)
	return ClearResponse{State: &resp}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KeysURI, "Calculator keypad",
		mcp.WithResourceDescription("Every key label accepted by press_keys, with aliases."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(domain.Keypad)
		if err != nil {
			return nil, fmt.Errorf("failed to encode keypad: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      KeysURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func toResponse(s *domain.State) SessionResponse {
	return SessionResponse{
		SessionID:  s.SessionID,
		Equation:   s.Equation,
		Result:     s.Result,
		AngleMode:  s.AngleMode.String(),
		LastResult: s.LastResult,
		Status:     string(s.Status),
		Message:    s.Message,
	}
}
