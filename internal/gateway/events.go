package gateway

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/varunhm/honeynet/internal/hooks"
	"github.com/varunhm/honeynet/internal/logging"
)

const (
	eventWriteTimeout = 5 * time.Second
	eventBufferSize   = 64
)

// eventHub fans lifecycle events out to connected WebSocket clients. A
// slow client gets dropped rather than backing up the hub.
type eventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan hooks.Payload
	closed  bool
	log     *logging.Logger
}

func newEventHub(log *logging.Logger) *eventHub {
	return &eventHub{
		clients: make(map[*websocket.Conn]chan hooks.Payload),
		log:     log.Sub("events"),
	}
}

func (h *eventHub) add(conn *websocket.Conn) chan hooks.Payload {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	ch := make(chan hooks.Payload, eventBufferSize)
	h.clients[conn] = ch
	return ch
}

func (h *eventHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
}

func (h *eventHub) broadcast(p hooks.Payload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		select {
		case ch <- p:
		default:
			h.log.Warn().Msg("dropping slow event client")
			close(ch)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for conn, ch := range h.clients {
		close(ch)
		conn.Close()
		delete(h.clients, conn)
	}
}

// handleEvents upgrades the connection and streams lifecycle events until
// the client disconnects.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	ch := s.events.add(conn)
	if ch == nil {
		conn.Close()
		return
	}
	defer s.events.remove(conn)

	// Reader goroutine: we never expect client frames, but reading is what
	// detects disconnects.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case p, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := conn.WriteJSON(p); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
