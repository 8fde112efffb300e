// Package server exposes the classification session API and the duty
// calculation entry point over HTTP.
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

	"htscompass/internal/catalog"
	"htscompass/internal/common"
	"htscompass/internal/locator"
	"htscompass/internal/session"
)

// Preview sizes for unresolved sessions.
const (
	answerPreviewLimit = 5
	resultPreviewLimit = 10
)

// Server wires the catalog, locator, and session store behind HTTP handlers.
type Server struct {
	table    *catalog.Table
	locator  *locator.Locator
	sessions *session.Store
}

// New creates a server over the given collaborators.
func New(table *catalog.Table, loc *locator.Locator, sessions *session.Store) *Server {
	return &Server{table: table, locator: loc, sessions: sessions}
}

// Routes returns the chi router for the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/classify", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Get("/question", s.handleQuestion)
		r.Post("/answer", s.handleAnswer)
		r.Get("/result", s.handleResult)
	})
	r.Post("/api/duty/calculate", s.handleCalculate)
	return r
}

// ListenAndServe runs the API until the context is canceled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps the application error taxonomy onto status codes:
// NotFound family to 404, InvalidInput family to 400, upstream failures to
// 503 as a retryable condition.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrSessionNotFound),
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrNoCandidates):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrUnknownOption),
		errors.Is(err, common.ErrNotAwaiting),
		errors.Is(err, common.ErrSessionClosed):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUpstreamUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
