package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/bayesnet"
	"github.com/aretw0/bayesnet/internal/presentation/graph"
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/ports"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-Id"

// maxBodyBytes bounds POST /ask bodies.
const maxBodyBytes = 1 << 20

// Server exposes a QueryEngine as a JSON API.
type Server struct {
	Engine  ports.QueryEngine
	Logger  *slog.Logger
	Metrics prometheus.Gatherer
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics serves the gatherer's metrics on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = g
	}
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.QueryEngine, opts ...Option) http.Handler {
	server := &Server{Engine: engine}
	for _, opt := range opts {
		opt(server)
	}
	if server.Logger == nil {
		server.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(requestID)

	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/networks", server.ListNetworks)
	r.Route("/networks/{name}", func(r chi.Router) {
		r.Get("/", server.GetNetwork)
		r.Get("/mermaid", server.GetMermaid)
		r.Get("/sample", server.GetSample)
	})
	r.Post("/ask", server.Ask)
	if server.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Metrics, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type requestIDKey struct{}

// requestID keeps a caller-supplied id or assigns a new one, and echoes it back.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) log(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return s.Logger.With("request_id", id, "path", r.URL.Path)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{
		"app":     "bayesnet-http",
		"version": strings.TrimSpace(bayesnet.Version),
	})
}

// ListNetworks handles the GET /networks request.
func (s *Server) ListNetworks(w http.ResponseWriter, r *http.Request) {
	infos, err := s.Engine.Networks()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, infos)
}

// GetNetwork handles the GET /networks/{name} request.
func (s *Server) GetNetwork(w http.ResponseWriter, r *http.Request) {
	info, err := s.Engine.Describe(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, info)
}

// GetMermaid handles the GET /networks/{name}/mermaid request.
// The optional query and evidence parameters highlight a question on the graph,
// e.g. ?query=Rain&evidence=Umbrella=true.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	info, err := s.Engine.Describe(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var overlay *graph.GraphOverlay
	params := r.URL.Query()
	if params.Has("query") || params.Has("evidence") {
		evidence, err := domain.ParseAssignments(params.Get("evidence"))
		if err != nil {
			s.writeError(w, r, badRequest{err})
			return
		}
		overlay = &graph.GraphOverlay{Query: domain.ParseNames(params.Get("query")), Evidence: evidence}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, graph.GenerateMermaid(info, overlay)); err != nil {
		s.log(r).Error("GetMermaid response write failed", "error", err)
	}
}

// GetSample handles the GET /networks/{name}/sample request.
func (s *Server) GetSample(w http.ResponseWriter, r *http.Request) {
	event, err := s.Engine.Sample(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, event)
}

// Ask handles the POST /ask request.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var body domain.Query
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		s.log(r).Warn("Ask: Invalid request body", "error", err)
		s.writeError(w, r, badRequest{fmt.Errorf("invalid request body: %w", err)})
		return
	}

	posterior, err := s.Engine.Ask(r.Context(), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log(r).Debug("Ask answered", "network", body.Network, "posterior", posterior.ID, "cached", posterior.Cached)
	s.writeJSON(w, r, http.StatusOK, posterior)
}

// badRequest marks transport-level input errors.
type badRequest struct{ error }

func (e badRequest) Unwrap() error { return e.error }

// ErrorResponse is the body of every non-2xx JSON reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// StatusFor maps engine errors onto HTTP status codes.
func StatusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNetworkNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownVariable),
		errors.Is(err, domain.ErrValueOutOfDomain),
		errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrDuplicateVariable),
		errors.Is(err, domain.ErrInvalidSampleCount),
		errors.Is(err, domain.ErrUnknownAlgorithm),
		errors.Is(err, domain.ErrEvidenceNotSupported):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoEvidenceSupport), errors.Is(err, domain.ErrChainStuck):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.log(r).Error("request failed", "error", err)
	}
	s.writeJSON(w, r, status, ErrorResponse{Error: err.Error(), RequestID: w.Header().Get(RequestIDHeader)})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log(r).Error("response encode failed", "error", err)
	}
}
