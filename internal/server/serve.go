package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"
)

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections on ln until ctx is cancelled, then drains
// in-flight requests for up to server.shutdown_timeout. A clean shutdown
// returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := s.httpServer()
	s.log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.Int("entries", s.catalog.Len()),
		zap.String("catalog_digest", s.catalog.Digest()),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.GetDuration("server.shutdown_timeout")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.log.Info("shutting down", zap.Duration("timeout", timeout))
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: s.cfg.GetDuration("server.read_header_timeout"),
		ReadTimeout:       s.cfg.GetDuration("server.read_timeout"),
		WriteTimeout:      s.cfg.GetDuration("server.write_timeout"),
	}
}
