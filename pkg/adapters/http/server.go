package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/expr"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Calculator is the part of abacus.Calculator the HTTP adapter drives.
type Calculator interface {
	Press(ctx context.Context, sessionID, label string) (*domain.State, error)
	PressKeys(ctx context.Context, sessionID, line string) (*domain.State, error)
	State(ctx context.Context, sessionID string) (*domain.State, error)
	Delete(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
	Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (abacus.Evaluation, error)
	Subscribe(obs ports.Observer) (cancel func())
}

// KeysRequest is the body of POST /sessions/{sessionId}/keys.
type KeysRequest struct {
	Token string `json:"token,omitempty"`
	Keys  string `json:"keys,omitempty"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// Server serves calculator sessions over HTTP.
type Server struct {
	Calculator Calculator
	Streams    *StreamManager

	handler     http.Handler
	unsubscribe func()
	logger      *slog.Logger
	gatherer    prometheus.Gatherer
	sanitizer   runner.Sanitizer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for request errors and streams.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithMaxInputSize bounds the "keys" and "expression" fields.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.sanitizer = runner.Sanitizer{MaxSize: n}
	}
}

// NewServer builds the router and subscribes the SSE streams to calc.
// Call Close to unsubscribe.
func NewServer(calc Calculator, opts ...Option) (*Server, error) {
	s := &Server{
		Calculator: calc,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		doc, err := rawSpec()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load openapi document")
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(doc)
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/sessions", s.ListSessions)
		r.Route("/sessions/{sessionId}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/keys", s.PressKeys)
			r.Get("/events", s.SubscribeEvents)
		})
		r.Post("/evaluate", s.Evaluate)
	})

	s.handler = r
	s.unsubscribe = calc.Subscribe(s.Streams)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops forwarding calculator changes to SSE clients.
func (s *Server) Close() {
	s.unsubscribe()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "abacus-http",
		"version":     abacus.Version,
		"api_version": apiVersion,
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Calculator.Sessions(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// GetSession handles GET /sessions/{sessionId}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	state, err := s.Calculator.State(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{sessionId}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.Calculator.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PressKeys handles POST /sessions/{sessionId}/keys.
func (s *Server) PressKeys(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var body KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		state *domain.State
		err   error
	)
	switch {
	case body.Token != "":
		var token string
		token, err = s.sanitizer.Clean(body.Token)
		if err == nil {
			state, err = s.Calculator.Press(r.Context(), id, token)
		}
	case body.Keys != "":
		var line string
		line, err = s.sanitizer.Clean(body.Keys)
		if err == nil {
			state, err = s.Calculator.PressKeys(r.Context(), id, line)
		}
	default:
		writeError(w, http.StatusBadRequest, `one of "token" or "keys" is required`)
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Evaluate handles POST /evaluate.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var modeText string
	if err := runtime.BindQueryParameter("form", true, false, "angle_mode", r.URL.Query(), &modeText); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mode := domain.Radians
	if modeText != "" {
		var err error
		if mode, err = domain.ParseAngleMode(modeText); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expression, err := s.sanitizer.Clean(body.Expression)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	out, err := s.Calculator.Evaluate(r.Context(), expression, mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SubscribeEvents handles GET /sessions/{sessionId}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			watch = append(watch, strings.TrimSpace(field))
		}
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", id)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watched(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// watched reports whether the diff carries any of the fields.
func watched(msg string, fields []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range fields {
		switch field {
		case "equation":
			if diff.Equation != nil {
				return true
			}
		case "result":
			if diff.Result != nil {
				return true
			}
		case "angle_mode":
			if diff.AngleMode != nil {
				return true
			}
		case "status":
			if diff.Status != nil {
				return true
			}
		case "message":
			if diff.Message != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "sessionId", chi.URLParam(r, "sessionId"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid sessionId: %v", err))
		return "", false
	}
	return id, true
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var evalErr *expr.EvalError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownKey),
		errors.Is(err, domain.ErrEmptySessionID),
		errors.Is(err, runner.ErrInputTooLarge),
		errors.Is(err, runner.ErrInvalidUTF8),
		errors.As(err, &evalErr):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("Request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
