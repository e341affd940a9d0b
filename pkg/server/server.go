package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/levenlabs/go-lflag"
	"github.com/smartworkshop/workshopcost/pkg/log"
	"github.com/smartworkshop/workshopcost/pkg/storage"
)

// Server handles the HTTP API for costing the workshop's machines. The
// machine list and tariff live in storage and every report is recomputed
// from them on request.
type Server struct {
	storage storage.Database
	metrics *metrics

	listenAddr      string
	httpServer      *http.Server
	serverName      string
	shutdownTimeout time.Duration
}

// New returns a Server backed by the given storage.
func New(db storage.Database) *Server {
	return &Server{
		storage:         db,
		metrics:         newMetrics(),
		serverName:      "workshopcost",
		shutdownTimeout: 5 * time.Second,
	}
}

// Configured initializes the Server with dependencies.
// It uses lflag to register command-line flags for configuration.
func Configured(db storage.Database) *Server {
	srv := New(db)
	revision := os.Getenv("K_REVISION")
	if revision != "" {
		srv.serverName = revision
	}

	// get the port from PORT when running in cloud run
	port := os.Getenv("PORT")
	if port == "" {
		// otherwise default to 8080
		port = "8080"
	}

	listenAddr := lflag.String("http-listen", ":"+port, "HTTP server listen address")
	shutdownTimeout := lflag.Duration("shutdown-timeout", srv.shutdownTimeout, "How long to wait for in-flight requests on shutdown")

	lflag.Do(func() {
		srv.listenAddr = *listenAddr
		srv.shutdownTimeout = *shutdownTimeout
	})

	return srv
}

func (s *Server) setupHandler() http.Handler {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /api/tariff", s.handleGetTariff)
	apiMux.HandleFunc("PUT /api/tariff", s.handleUpdateTariff)
	apiMux.HandleFunc("GET /api/machines", s.handleListMachines)
	apiMux.HandleFunc("POST /api/machines", s.handleAddMachine)
	apiMux.HandleFunc("DELETE /api/machines/{id}", s.handleRemoveMachine)
	apiMux.HandleFunc("GET /api/report", s.handleReport)

	mux := http.NewServeMux()
	mux.Handle("/api/", s.requestMiddleware(apiMux))
	mux.Handle("GET /metrics", s.metrics.handler())
	mux.HandleFunc("/healthz", s.handleHealthz)
	return s.revisionMiddleware(gziphandler.GzipHandler(s.securityHeadersMiddleware(mux)))
}

// Handler returns the full HTTP handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.setupHandler()
}

// Run starts the HTTP server and blocks until the context is canceled or an error occurs.
// It also handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.listenAddr,
		Handler:      s.setupHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	// use a channel to capturing server errors
	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		log.Ctx(ctx).InfoContext(ctx, "starting server", slog.String("addr", s.listenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Ctx(ctx).InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// writeJSON marshals v before writing anything so a value that cannot be
// encoded (such as a non-finite float) becomes a 500 instead of a truncated
// response.
func writeJSON(ctx context.Context, w http.ResponseWriter, v any, code int) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to marshal response", slog.Any("error", err))
		writeJSONError(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(append(b, '\n')); err != nil {
		panic(http.ErrAbortHandler)
	}
}

func writeJSONError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg}); err != nil {
		slog.Warn("failed to write error response", slog.Any("error", err))
		panic(http.ErrAbortHandler)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		panic(http.ErrAbortHandler)
	}
}
