// Package callback delivers the final intelligence payload for terminated
// sessions with an at-most-once guarantee.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/hooks"
	"github.com/varunhm/honeynet/internal/logging"
)

// Store is the slice of session persistence the dispatcher needs: the
// atomic callback flag and the dead-letter log.
type Store interface {
	MarkCallbackSent(id string) (bool, error)
	RecordDeadLetter(payload domain.CallbackPayload, reason string) error
}

// Config controls delivery.
type Config struct {
	URL            string        // completion endpoint; empty disables delivery (the flag still flips)
	AuthToken      string        // optional bearer token
	MaxRetries     int           // retry attempts after the first try
	AttemptTimeout time.Duration // per-attempt HTTP timeout
	RetryWaitMin   time.Duration
	RetryWaitMax   time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 4
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = 10 * time.Second
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = 500 * time.Millisecond
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = 15 * time.Second
	}
}

// Dispatcher guarantees at-most-once delivery of the completion payload.
// The callbackSent transition is a single atomic check-and-set in the store
// before any network I/O, so two concurrent terminal evaluations for the
// same session can never both fire. Delivery itself runs detached from the
// turn so a slow endpoint never blocks session processing.
type Dispatcher struct {
	cfg    Config
	store  Store
	hooks  *hooks.Manager
	client *retryablehttp.Client
	log    *logging.Logger
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher with bounded exponential backoff.
func NewDispatcher(cfg Config, st Store, hookMgr *hooks.Manager, log *logging.Logger) *Dispatcher {
	cfg.applyDefaults()

	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	client.RetryWaitMin = cfg.RetryWaitMin
	client.RetryWaitMax = cfg.RetryWaitMax
	client.HTTPClient.Timeout = cfg.AttemptTimeout
	client.Logger = nil

	return &Dispatcher{
		cfg:    cfg,
		store:  st,
		hooks:  hookMgr,
		client: client,
		log:    log.Sub("callback"),
	}
}

// DispatchIfNeeded fires the completion callback for a terminated session
// if it has not fired before. The payload is snapshotted before the method
// returns; delivery happens asynchronously.
func (d *Dispatcher) DispatchIfNeeded(ctx context.Context, sess *domain.Session) {
	if sess.Terminal != domain.StateTerminated {
		return
	}

	won, err := d.store.MarkCallbackSent(sess.ID)
	if err != nil {
		d.log.Error().Err(err).Str("sessionId", sess.ID).Msg("callback flag check-and-set failed")
		return
	}
	if !won {
		return
	}
	sess.CallbackSent = true

	payload := sess.Payload()
	d.wg.Add(1)
	go d.deliver(payload)
}

// Wait blocks until all in-flight deliveries have finished. Used on
// shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(payload domain.CallbackPayload) {
	defer d.wg.Done()

	if d.cfg.URL == "" {
		d.log.Warn().Str("sessionId", payload.SessionID).Msg("no callback URL configured, skipping delivery")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.deadLetter(payload, fmt.Sprintf("encoding payload: %v", err))
		return
	}

	if err := d.post(body); err != nil {
		derr := &domain.DeliveryError{
			SessionID: payload.SessionID,
			Attempts:  d.cfg.MaxRetries + 1,
			Err:       err,
		}
		d.log.Error().Err(derr).Str("sessionId", payload.SessionID).Msg("callback delivery failed")
		d.deadLetter(payload, derr.Error())
		return
	}

	d.log.Info().
		Str("sessionId", payload.SessionID).
		Int("messages", payload.TotalMessagesExchanged).
		Bool("scamDetected", payload.ScamDetected).
		Msg("callback delivered")
	d.hooks.Emit(context.Background(), hooks.EventCallbackDelivered, map[string]any{
		"sessionId": payload.SessionID,
	})
}

func (d *Dispatcher) post(body []byte) error {
	req, err := retryablehttp.NewRequest(http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.AuthToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// deadLetter records a permanent failure. The callback flag is left set:
// resetting it would invite duplicate notification storms on retry of the
// whole operation.
func (d *Dispatcher) deadLetter(payload domain.CallbackPayload, reason string) {
	if err := d.store.RecordDeadLetter(payload, reason); err != nil {
		d.log.Error().Err(err).Str("sessionId", payload.SessionID).Msg("failed to record dead letter")
	}
	d.hooks.Emit(context.Background(), hooks.EventCallbackDeadLetter, map[string]any{
		"sessionId": payload.SessionID,
		"reason":    reason,
	})
}
