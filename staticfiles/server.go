package staticfiles

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lucy_nodes/logging"

	"go.uber.org/zap"
)

// Server exposes a store directory over HTTP so the URLs returned by
// LocalStore resolve when running without a hosting graph. Files are served
// under the /static/ prefix.
type Server struct {
	httpServer *http.Server
	logger     *logging.Logger
}

// NewServer creates a file server for dir listening on addr
// (e.g. ":8088").
func NewServer(dir, addr string, logger *logging.Logger) (*Server, error) {
	if dir == "" {
		return nil, fmt.Errorf("staticfiles: directory is required")
	}
	if addr == "" {
		return nil, fmt.Errorf("staticfiles: listen address is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	mux := http.NewServeMux()
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(dir))))

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.Named("staticserver"),
	}, nil
}

// ListenAndServe blocks serving files until Shutdown is called or the
// listener fails. A closed-server result is reported as nil.
func (s *Server) ListenAndServe() error {
	s.logger.Info("serving static files", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
