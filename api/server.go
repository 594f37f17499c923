package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vigneshbunny/crypto-pay/config"
)

// Server is the HTTP API server.
type Server struct {
	httpSrv *http.Server
}

// NewServer creates an API server for the given handler.
func NewServer(cfg *config.API, handler http.Handler) *Server {
	return &Server{
		// No global read/write timeouts: the handler also serves
		// long-lived websocket connections.
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe starts to listen and to serve requests.
func (s *Server) ListenAndServe() error {
	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Close closes the server immediately.
func (s *Server) Close() error {
	return s.httpSrv.Close()
}
