// package server hosts the temporary local HTTP server used for OAuth callbacks
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/vgx/internal/shared"
)

// CallbackServer is a short-lived HTTP server that waits for one OAuth
// callback and then shuts down.
type CallbackServer struct {
	handler    *CallbackHandler
	httpServer *http.Server
	errs       chan error
}

// NewCallbackServer creates a server on addr routing /callback to the handler.
func NewCallbackServer(addr string, handler *CallbackHandler) *CallbackServer {
	mux := http.NewServeMux()
	mux.Handle("/callback", handler)

	return &CallbackServer{
		handler: handler,
		httpServer: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		errs: make(chan error, 1),
	}
}

// Start begins listening in a background goroutine.
func (s *CallbackServer) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.errs <- err
		}
	}()
}

// Wait blocks until the callback arrives, the server fails, the timeout
// elapses, or the context is canceled. The server is shut down before
// returning in every case.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (AuthResult, error) {
	defer s.shutdown()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.handler.Result():
		if result.Error() != nil {
			return result, fmt.Errorf("authorization failed: %w", result.Error())
		}
		if result.Token == nil {
			return result, fmt.Errorf("no token received")
		}
		return result, nil
	case err := <-s.errs:
		return AuthResult{}, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return AuthResult{}, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return AuthResult{}, ctx.Err()
	}
}

func (s *CallbackServer) shutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.httpServer.Shutdown(shutdownCtx)
}
