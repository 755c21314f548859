// Package server exposes the companion over a localhost HTTP API with a
// WebSocket stream of store changes.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/companion/internal/ai"
	"github.com/julianstephens/companion/internal/chat"
	"github.com/julianstephens/companion/internal/logger"
	"github.com/julianstephens/companion/internal/storage"
)

const (
	DefaultAddr     = "127.0.0.1:8787"
	shutdownTimeout = 10 * time.Second
)

// Rebuild constructs the collaborator for the current credential.
type Rebuild func(ctx context.Context) (ai.Collaborator, error)

type Config struct {
	Addr string
	// Rebuild is called after the credential changes. Nil keeps the current collaborator.
	Rebuild Rebuild
}

type Server struct {
	store   *storage.Store
	chat    *chat.Orchestrator
	addr    string
	rebuild Rebuild
	router  chi.Router
}

func New(store *storage.Store, orch *chat.Orchestrator, cfg Config) *Server {
	s := &Server{
		store:   store,
		chat:    orch,
		addr:    cfg.Addr,
		rebuild: cfg.Rebuild,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	s.routes(r)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return s.addr
}

// Run serves until ctx is cancelled, watching the store file for changes
// made by other processes in the meantime.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return storage.NewWatcher(s.store).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server forced to shutdown", "err", err)
			return err
		}
		logger.Info("server stopped")
		return nil
	})
	return g.Wait()
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Component("http").Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chiMiddleware.GetReqID(r.Context()),
		)
	})
}
