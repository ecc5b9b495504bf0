// Package gateway exposes the honeypot over HTTP: the ingest endpoint the
// message channels call, operator endpoints for sessions and dead letters,
// and a WebSocket feed of lifecycle events.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/varunhm/honeynet/internal/config"
	"github.com/varunhm/honeynet/internal/engine"
	"github.com/varunhm/honeynet/internal/hooks"
	"github.com/varunhm/honeynet/internal/logging"
	"github.com/varunhm/honeynet/internal/render"
)

// Server is the honeynet HTTP + WebSocket server.
type Server struct {
	cfg          config.Config
	orchestrator *engine.Orchestrator
	sessions     engine.SessionStore
	renderer     render.Renderer
	hooks        *hooks.Manager
	events       *eventHub
	log          *logging.Logger
	httpServer   *http.Server
	upgrader     websocket.Upgrader
	startedAt    time.Time
}

// New creates a gateway server.
func New(
	cfg config.Config,
	orchestrator *engine.Orchestrator,
	sessions engine.SessionStore,
	renderer render.Renderer,
	hookMgr *hooks.Manager,
	log *logging.Logger,
) *Server {
	s := &Server{
		cfg:          cfg,
		orchestrator: orchestrator,
		sessions:     sessions,
		renderer:     renderer,
		hooks:        hookMgr,
		log:          log.Sub("gateway"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		startedAt: time.Now(),
	}
	s.events = newEventHub(s.log)
	s.wireHooks()
	return s
}

// wireHooks forwards lifecycle events to connected WebSocket clients.
func (s *Server) wireHooks() {
	for _, event := range hooks.AllEvents {
		s.hooks.On(event, "gateway-events", func(ctx context.Context, p hooks.Payload) error {
			s.events.broadcast(p)
			return nil
		})
	}
}

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/v1/ingest", s.handleIngest)
	mux.HandleFunc("GET /api/v1/sessions", s.requireAuth(s.handleListSessions))
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.requireAuth(s.handleGetSession))
	mux.HandleFunc("GET /api/v1/dead-letters", s.requireAuth(s.handleDeadLetters))
	mux.HandleFunc("GET /ws", s.requireAuth(s.handleEvents))
	return withMiddleware(mux, s.log)
}

// Start begins serving and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Bind, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.startedAt = time.Now()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.hooks.Emit(ctx, hooks.EventServerStart, map[string]any{"addr": addr})

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return s.Shutdown()
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	s.log.Info().Msg("shutting down")
	s.hooks.Emit(context.Background(), hooks.EventServerStop, nil)
	s.events.close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
