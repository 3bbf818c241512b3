// ABOUTME: Fake bot management API server used for local development and tests
// ABOUTME: Routes the management endpoints over gorilla/mux and runs with graceful shutdown

package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/boter/boter-console/internal/auth"
	"github.com/boter/boter-console/internal/store"
)

const (
	// DefaultTokenTTL is how long issued tokens stay valid.
	DefaultTokenTTL = 24 * time.Hour

	// groupListLimit caps the group list like the production server.
	groupListLimit = 50

	resetPasswordBytes = 12
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithTokenTTL overrides DefaultTokenTTL.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// Server is the fake management API.
type Server struct {
	store    store.Store
	verifier *auth.JWTVerifier
	tokenTTL time.Duration
	logger   *slog.Logger
	metrics  *Metrics
	router   *mux.Router

	httpServer *http.Server
}

// New creates a server over st, signing tokens with verifier.
func New(st store.Store, verifier *auth.JWTVerifier, opts ...Option) *Server {
	s := &Server{
		store:    st,
		verifier: verifier,
		tokenTTL: DefaultTokenTTL,
		logger:   slog.Default(),
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "fakeapi")
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.metrics.Middleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/setup", s.handleSetup).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(auth.HTTPAuthMiddleware(s.store, s.verifier, s.logger))
	protected.HandleFunc("/reset-password", s.handleResetPassword).Methods(http.MethodPost)
	protected.HandleFunc("/dashboard/stats", s.handleStats).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/groups", s.handleListGroups).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/groups/{id}/toggle", s.handleToggleGroup).Methods(http.MethodPost)
	protected.HandleFunc("/dashboard/groups/{id}", s.handleDeleteGroup).Methods(http.MethodDelete)
	protected.HandleFunc("/config/get", s.handleGetConfig).Methods(http.MethodGet)
	protected.HandleFunc("/config/update", s.handleUpdateConfig).Methods(http.MethodPost)

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
		close(errCh)
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		if serverErr != nil {
			s.logger.Error("server error", "error", serverErr)
		}
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the run context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// fieldError is one entry of a validation failure body.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeValidation(w http.ResponseWriter, errs []fieldError) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string][]fieldError{"detail": errs})
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "error", err)
	writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
}
