// Package hooks provides an event bus for honeypot lifecycle events.
//
// The callback dead-letter path publishes here, which is what makes
// permanent delivery failures operator-visible without coupling the
// dispatcher to any particular surface.
package hooks

import (
	"context"
	"sync"

	"github.com/varunhm/honeynet/internal/logging"
)

// Event names.
const (
	EventSessionStart       = "session_start"
	EventTurnProcessed      = "turn_processed"
	EventSessionTerminated  = "session_terminated"
	EventCallbackDelivered  = "callback_delivered"
	EventCallbackDeadLetter = "callback_dead_letter"
	EventServerStart        = "server_start"
	EventServerStop         = "server_stop"
)

// AllEvents lists all known event names.
var AllEvents = []string{
	EventSessionStart,
	EventTurnProcessed,
	EventSessionTerminated,
	EventCallbackDelivered,
	EventCallbackDeadLetter,
	EventServerStart,
	EventServerStop,
}

// Payload carries event data to handlers.
type Payload struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler handles one event. Returning an error logs the failure but does
// not stop other handlers.
type Handler func(ctx context.Context, p Payload) error

// Manager manages handler registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
	}
}

// On registers a handler for the given event. The name identifies the
// handler for logging and removal.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

// Off removes all handlers with the given name from the event.
func (m *Manager) Off(event, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	handlers := m.handlers[event]
	filtered := make([]namedHandler, 0, len(handlers))
	for _, h := range handlers {
		if h.name != name {
			filtered = append(filtered, h)
		}
	}
	m.handlers[event] = filtered
}

// Emit dispatches an event to all registered handlers synchronously, in
// registration order. Handler errors are logged and do not prevent
// subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	m.mu.RLock()
	handlers := make([]namedHandler, len(m.handlers[event]))
	copy(handlers, m.handlers[event])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	payload := Payload{Event: event, Data: data}

	for _, h := range handlers {
		if err := h.handler(ctx, payload); err != nil {
			m.log.Warn().
				Err(err).
				Str("event", event).
				Str("handler", h.name).
				Msg("hook handler error")
		}
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}
