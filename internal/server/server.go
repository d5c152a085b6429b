package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dshills/ccw/internal/modes"
	"github.com/dshills/ccw/internal/providers"
	"github.com/dshills/ccw/internal/review"
)

// maxRequestBody bounds the size of an analyze request.
const maxRequestBody = 8 << 20

// Pinger checks that the model server is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	engine   *review.Engine
	registry *modes.Registry
	pinger   Pinger
	logger   *slog.Logger
}

// New creates a Server. pinger may be nil, in which case /health only
// reports that the process is up.
func New(engine *review.Engine, registry *modes.Registry, pinger Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, registry: registry, pinger: pinger, logger: logger}
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Mode     string `json:"mode"`
	Body     string `json:"body"`
	Question string `json:"question,omitempty"`
	Criteria string `json:"criteria,omitempty"`
	Source   string `json:"source,omitempty"`
}

// Handler returns the routed handler with request logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyze)
		r.Get("/modes", s.listModes)
	})
	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "model": s.engine.Model()})
}

func (s *Server) listModes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modes": s.registry.List()})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	def := s.registry.Lookup(req.Mode)
	res, err := s.engine.Run(r.Context(), def, review.Input{
		Body:     req.Body,
		Question: req.Question,
		Criteria: req.Criteria,
		Source:   req.Source,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case review.IsUsageError(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case providers.IsRequestProblem(err), errors.Is(err, providers.ErrMalformedResponse):
		writeJSON(w, http.StatusBadGateway, res)
	default:
		s.logger.Error("analyze failed", "mode", def.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to shutdownTimeout for in-flight requests.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
