// Package server answers blocklist lookups over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"blagbl/internal/blag"
	"blagbl/internal/common"
	"blagbl/internal/config"

	"golang.org/x/net/netutil"
)

const shutdownTimeout = 5 * time.Second

// Server serves lookups against whatever index its source currently holds.
type Server struct {
	cfg    config.Config
	source IndexSource
	cache  *common.Cache
	log    *slog.Logger
	http   *http.Server
}

// New builds a server. Cached filter expressions are dropped whenever source reloads.
func New(cfg config.Config, source IndexSource, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		source: source,
		cache:  common.NewCache(cfg.CacheTTL),
		log:    log,
	}
	source.OnReload(func(*blag.Index) { s.cache.Purge() })

	handler, err := s.newRouter()
	if err != nil {
		return nil, fmt.Errorf("building router: %w", err)
	}
	s.http = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts at most MaxConnections concurrent connections from ln until ctx is done,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ln = netutil.LimitListener(ln, s.cfg.MaxConnections)
	s.cache.Start()
	defer s.cache.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", ln.Addr().String(), "max_connections", s.cfg.MaxConnections)
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutdown requested")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server shutdown complete")
	return nil
}
