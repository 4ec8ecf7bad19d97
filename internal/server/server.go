// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal/observability"
	"codeberg.org/snonux/readaloud/internal/pipeline"
)

// MaxRequestBody limits the size of a /generate request body
const MaxRequestBody = 1 << 20

// Runner executes one pipeline request
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Server serves the generate, health and metrics endpoints
type Server struct {
	runner Runner
	logger zerolog.Logger
}

// New creates a server backed by runner
func New(runner Runner) *Server {
	return &Server{
		runner: runner,
		logger: observability.Component("server"),
	}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Model inference and synthesis are unbounded; leave writes open
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.logger.Info().Msg("server exited gracefully")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = observability.NewRequestID()
	}
	w.Header().Set("X-Request-ID", requestID)
	logger := observability.WithRequestID(requestID)

	var req pipeline.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, &pipeline.Error{Kind: pipeline.KindInvalidInput, Message: fmt.Sprintf("invalid request body: %v", err), Err: err})
		return
	}

	// A client disconnect must not abort the pipeline mid-way; it only
	// stops the stream below
	ctx := observability.ContextWithRequestID(context.WithoutCancel(r.Context()), requestID)

	result, err := s.runner.Run(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "audio/mpeg")
	h.Set("Content-Disposition", "inline; filename=article.mp3")
	h.Set("Content-Length", strconv.Itoa(result.Size))
	h.Set("X-Cleaned-Preview", encodeHeader(result.CleanedPreview))
	h.Set("X-Summary-Preview", encodeHeader(result.SummaryPreview))
	h.Set("X-Language", result.LanguageName)
	w.WriteHeader(http.StatusOK)

	if _, err := result.WriteTo(r.Context(), w); err != nil {
		logger.Debug().Err(err).Msg("client stopped reading audio")
	}
}

// encodeHeader makes arbitrary UTF-8 safe for an HTTP header value
func encodeHeader(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	var pe *pipeline.Error
	if !errors.As(err, &pe) {
		pe = &pipeline.Error{Kind: pipeline.KindInternal, Message: "internal error while generating audio", Err: err}
	}
	writeJSON(w, pe.Kind.HTTPStatus(), errorResponse{Error: pe.Kind.String(), Message: pe.Message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
