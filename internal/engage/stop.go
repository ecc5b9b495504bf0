package engage

import "github.com/varunhm/honeynet/internal/domain"

// Default caps. Both are configurable; see config.EngagementConfig.
const (
	DefaultSafetyCap = 20 // total accepted messages
	DefaultSoftCap   = 8  // turns after the first payment identifier sighting
)

// StopDecision is the outcome of a stop-condition evaluation.
type StopDecision struct {
	Terminate bool
	Reason    domain.StopReason
}

// Evaluator decides when a session has yielded enough intelligence.
type Evaluator struct {
	safetyCap int
	softCap   int
}

// NewEvaluator creates an evaluator with the given caps. Non-positive caps
// fall back to the defaults.
func NewEvaluator(safetyCap, softCap int) *Evaluator {
	if safetyCap <= 0 {
		safetyCap = DefaultSafetyCap
	}
	if softCap <= 0 {
		softCap = DefaultSoftCap
	}
	return &Evaluator{safetyCap: safetyCap, softCap: softCap}
}

// Evaluate is a pure predicate over session state. Termination requires a
// payment identifier; with one present, the session ends when a contact
// detail exists, the safety cap is hit, or too many turns have passed since
// the payment identifier first appeared.
func (e *Evaluator) Evaluate(s *domain.Session) StopDecision {
	if !s.Intel.Has(domain.CategoryPayment) {
		return StopDecision{}
	}
	if s.Intel.Has(domain.CategoryPhone) {
		return StopDecision{Terminate: true, Reason: domain.ReasonIntelComplete}
	}
	if s.MessageCount >= e.safetyCap {
		return StopDecision{Terminate: true, Reason: domain.ReasonSafetyCap}
	}
	if first := s.Intel.FirstTurn(domain.CategoryPayment); first > 0 && s.MessageCount-first >= e.softCap {
		return StopDecision{Terminate: true, Reason: domain.ReasonTimeoutCap}
	}
	return StopDecision{}
}
