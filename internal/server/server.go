package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/beaver-systems/beaver/internal/logging"
)

// Server wraps http.Server with a context-driven lifecycle.
type Server struct {
	http   *http.Server
	logger *logging.Logger
}

// New builds a Server on addr. The write timeout applies to regular
// responses; streaming handlers clear their connection's write deadline and
// rely on the poll loop's context instead.
func New(addr string, handler http.Handler, readTimeout, writeTimeout, idleTimeout time.Duration, logger *logging.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       idleTimeout,
		},
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then drains connections for up to 10s.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
