// Package engine sequences the honeypot decision core for each inbound
// message turn.
package engine

import (
	"context"
	"time"

	"github.com/varunhm/honeynet/internal/detect"
	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/engage"
	"github.com/varunhm/honeynet/internal/hooks"
	"github.com/varunhm/honeynet/internal/intel"
	"github.com/varunhm/honeynet/internal/logging"
)

// Dispatcher delivers the completion callback for a terminated session at
// most once.
type Dispatcher interface {
	DispatchIfNeeded(ctx context.Context, sess *domain.Session)
}

// TurnResult is what the core hands back to the API layer for one accepted
// message: the reply goal for the renderer plus audit fields.
type TurnResult struct {
	SessionID  string               `json:"sessionId"`
	Turn       int                  `json:"turn"`
	Goal       domain.Goal          `json:"goal"`
	Terminal   domain.TerminalState `json:"terminalState"`
	StopReason domain.StopReason    `json:"stopReason,omitempty"`
	Intent     domain.Intent        `json:"intent"`
	Intel      domain.Snapshot      `json:"intel"`
	Duration   time.Duration        `json:"duration"`
}

// Orchestrator runs one decision turn per inbound message. Turns for the
// same session are serialized; turns for different sessions run in
// parallel.
type Orchestrator struct {
	sessions   SessionStore
	classifier *detect.Classifier
	extractor  *intel.Extractor
	evaluator  *engage.Evaluator
	dispatcher Dispatcher
	hooks      *hooks.Manager
	locks      *sessionLocks
	log        *logging.Logger
}

// NewOrchestrator wires the decision core together.
func NewOrchestrator(
	sessions SessionStore,
	classifier *detect.Classifier,
	extractor *intel.Extractor,
	evaluator *engage.Evaluator,
	dispatcher Dispatcher,
	hookMgr *hooks.Manager,
	log *logging.Logger,
) *Orchestrator {
	return &Orchestrator{
		sessions:   sessions,
		classifier: classifier,
		extractor:  extractor,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		hooks:      hookMgr,
		locks:      newSessionLocks(),
		log:        log.Sub("engine"),
	}
}

// HandleTurn processes one inbound message for a session and returns the
// goal the renderer should phrase plus the session's terminal state.
//
// Validation failures reject the turn with no state mutated. Storage
// failures abort the turn and are retryable by the caller. Extraction and
// callback failures never fail a turn.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, msg domain.Message) (*TurnResult, error) {
	start := time.Now()

	if sessionID == "" {
		return nil, &domain.ValidationError{Field: "sessionId", Reason: "empty"}
	}

	// Classify before taking the lock: pure over the message text, and a
	// malformed message must not mutate anything.
	intent, err := o.classifier.Classify(msg.Text)
	if err != nil {
		return nil, err
	}

	lock := o.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := o.sessions.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		sess = domain.NewSession(sessionID)
		o.hooks.Emit(ctx, hooks.EventSessionStart, map[string]any{"sessionId": sessionID})
	}

	alreadyTerminated := sess.Terminal == domain.StateTerminated

	turn, err := sess.Accept(msg)
	if err != nil {
		return nil, err
	}

	if intent.Decision == domain.DecisionScam {
		sess.ScamDetected = true
	}

	var goal domain.Goal
	switch {
	case sess.Terminal == domain.StateTerminated:
		// Post-termination messages are recorded for audit but change
		// nothing else.
		goal = sess.CurrentGoal

	case !sess.ScamDetected && intent.Decision == domain.DecisionNonScam:
		// Nothing scam-like yet: stay neutral and leave the snapshot alone.
		goal = domain.GoalProbe
		sess.SetGoal(goal, turn)

	default:
		facts := o.extractor.ExtractFacts(msg.Text, turn)
		sess.Intel.Merge(facts)
		goal = engage.SelectGoal(sess.Intel)
		sess.SetGoal(goal, turn)

		if stop := o.evaluator.Evaluate(sess); stop.Terminate {
			sess.Terminate(stop.Reason)
			o.log.Info().
				Str("sessionId", sessionID).
				Str("reason", string(stop.Reason)).
				Int("messages", sess.MessageCount).
				Msg("session terminated")
		}
	}

	if err := o.sessions.Save(sess); err != nil {
		return nil, err
	}

	// Only the turn that performed the transition dispatches and emits;
	// post-termination turns are pure audit appends.
	if sess.Terminal == domain.StateTerminated && !alreadyTerminated {
		o.dispatcher.DispatchIfNeeded(ctx, sess)
		o.hooks.Emit(ctx, hooks.EventSessionTerminated, map[string]any{
			"sessionId": sessionID,
			"reason":    string(sess.TerminalReason),
		})
	}

	result := &TurnResult{
		SessionID:  sessionID,
		Turn:       turn,
		Goal:       goal,
		Terminal:   sess.Terminal,
		StopReason: sess.TerminalReason,
		Intent:     intent,
		Intel:      sess.Intel.Clone(),
		Duration:   time.Since(start),
	}

	o.log.Info().
		Str("sessionId", sessionID).
		Int("turn", turn).
		Str("decision", string(intent.Decision)).
		Float64("confidence", intent.Confidence).
		Str("goal", string(goal)).
		Str("state", string(sess.Terminal)).
		Dur("duration", result.Duration).
		Msg("turn processed")

	o.hooks.Emit(ctx, hooks.EventTurnProcessed, map[string]any{
		"sessionId": sessionID,
		"turn":      turn,
		"goal":      string(goal),
		"decision":  string(intent.Decision),
	})

	return result, nil
}
