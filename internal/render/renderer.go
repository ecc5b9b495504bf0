// Package render turns a conversational goal plus sanitized facts into the
// reply text sent back to the scammer.
//
// The decision core never depends on renderer output for correctness: when
// the primary renderer is unavailable or errors, a fixed canned template
// per goal is used so a turn never fails purely because phrasing failed.
package render

import (
	"context"

	"github.com/varunhm/honeynet/internal/domain"
)

// Facts are the sanitized values a renderer may weave into its phrasing.
// Renderers produce wording, never data.
type Facts struct {
	PaymentHandles []string `json:"paymentHandles,omitempty"`
	LastMessage    string   `json:"lastMessage,omitempty"`
}

// Renderer phrases a goal as reply text.
type Renderer interface {
	Render(ctx context.Context, goal domain.Goal, facts Facts) (string, error)
}

// Chain tries renderers in order, falling back on error. The last renderer
// should be infallible (the template renderer is).
type Chain struct {
	renderers []Renderer
}

// NewChain builds a fallback chain.
func NewChain(renderers ...Renderer) *Chain {
	return &Chain{renderers: renderers}
}

// Render returns the first successful rendering.
func (c *Chain) Render(ctx context.Context, goal domain.Goal, facts Facts) (string, error) {
	var lastErr error
	for _, r := range c.renderers {
		text, err := r.Render(ctx, goal, facts)
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", nil
}
