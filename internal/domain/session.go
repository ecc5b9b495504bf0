package domain

import (
	"fmt"
	"time"
)

// Goal is the next conversational objective for the honeypot persona.
type Goal string

const (
	GoalRequestPayment Goal = "request-payment-method"
	GoalRequestContact Goal = "request-contact-detail"
	GoalConfirmPayment Goal = "confirm-payment-detail"
	GoalSustain        Goal = "sustain-engagement"
	GoalProbe          Goal = "probe-intent" // neutral goal for sessions not yet classified as scam
)

// TerminalState marks whether a session is still engaging.
type TerminalState string

const (
	StateActive     TerminalState = "ACTIVE"
	StateTerminated TerminalState = "TERMINATED"
)

// StopReason explains why a session was terminated.
type StopReason string

const (
	ReasonIntelComplete StopReason = "intelligence-complete"
	ReasonSafetyCap     StopReason = "safety-cap-reached"
	ReasonTimeoutCap    StopReason = "timeout-cap-reached"
)

// GoalRecord is the goal chosen at a given turn, retained for audit.
type GoalRecord struct {
	Goal Goal `json:"goal"`
	Turn int  `json:"turn"`
}

// Session is the full engagement state for one scammer conversation.
// It is owned by the session store; other components only ever see a copy.
type Session struct {
	ID             string        `json:"id"`
	Messages       []Message     `json:"messages"`
	Intel          Snapshot      `json:"intel"`
	MessageCount   int           `json:"messageCount"`
	CurrentGoal    Goal          `json:"currentGoal,omitempty"`
	GoalHistory    []GoalRecord  `json:"goalHistory,omitempty"`
	Terminal       TerminalState `json:"terminalState"`
	TerminalReason StopReason    `json:"terminalReason,omitempty"`
	ScamDetected   bool          `json:"scamDetected"`
	CallbackSent   bool          `json:"callbackSent"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// NewSession creates an empty active session with the externally assigned id.
func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Intel:     NewSnapshot(),
		Terminal:  StateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Accept appends an inbound message, assigns its turn index, and increments
// the message count. The returned turn index is 1-based.
func (s *Session) Accept(msg Message) (int, error) {
	if msg.Text == "" {
		return 0, &ValidationError{Field: "message.text", Reason: "empty"}
	}
	msg.TurnIndex = s.MessageCount + 1
	s.Messages = append(s.Messages, msg)
	s.MessageCount++
	s.UpdatedAt = time.Now().UTC()
	return msg.TurnIndex, nil
}

// SetGoal records the goal chosen for the given turn.
func (s *Session) SetGoal(goal Goal, turn int) {
	s.CurrentGoal = goal
	s.GoalHistory = append(s.GoalHistory, GoalRecord{Goal: goal, Turn: turn})
}

// Terminate transitions the session to TERMINATED. The transition happens
// exactly once; later calls are no-ops so the state never reverses.
func (s *Session) Terminate(reason StopReason) {
	if s.Terminal == StateTerminated {
		return
	}
	s.Terminal = StateTerminated
	s.TerminalReason = reason
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy for handing out without exposing live state.
func (s *Session) Clone() *Session {
	cp := *s
	cp.Messages = append([]Message(nil), s.Messages...)
	cp.GoalHistory = append([]GoalRecord(nil), s.GoalHistory...)
	cp.Intel = s.Intel.Clone()
	return &cp
}

// Payload builds the completion callback payload from the session's state
// at termination.
func (s *Session) Payload() CallbackPayload {
	return CallbackPayload{
		SessionID:              s.ID,
		ScamDetected:           s.ScamDetected,
		TotalMessagesExchanged: s.MessageCount,
		ExtractedIntelligence: Intelligence{
			UPIIDs:              s.Intel.Values(CategoryPayment),
			PhoneNumbers:        s.Intel.Values(CategoryPhone),
			BankAccounts:        s.Intel.Values(CategoryBankAccount),
			PhishingLinks:       s.Intel.Values(CategoryPhishingLink),
			Domains:             s.Intel.Values(CategoryDomain),
			UPIProviders:        s.Intel.Values(CategoryProvider),
			DomainImpersonation: s.Intel.Values(CategoryImpersonation),
		},
	}
}

// CallbackPayload is the final intelligence report delivered once per session.
type CallbackPayload struct {
	SessionID              string       `json:"sessionId"`
	ScamDetected           bool         `json:"scamDetected"`
	TotalMessagesExchanged int          `json:"totalMessagesExchanged"`
	ExtractedIntelligence  Intelligence `json:"extractedIntelligence"`
}

// Intelligence is the serialized form of a snapshot for the callback.
type Intelligence struct {
	UPIIDs              []string `json:"upiIds"`
	PhoneNumbers        []string `json:"phoneNumbers"`
	BankAccounts        []string `json:"bankAccounts,omitempty"`
	PhishingLinks       []string `json:"phishingLinks"`
	Domains             []string `json:"domains"`
	UPIProviders        []string `json:"upiProviders,omitempty"`
	DomainImpersonation []string `json:"domainImpersonation"`
}

// String implements fmt.Stringer for log output.
func (s *Session) String() string {
	return fmt.Sprintf("session %s: %d msgs, goal=%s, state=%s", s.ID, s.MessageCount, s.CurrentGoal, s.Terminal)
}
