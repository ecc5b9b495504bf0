package domain

import "time"

// Message is a single inbound turn in a scam conversation.
// Once appended to a session it is never modified.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	TurnIndex int       `json:"turnIndex"` // assigned on acceptance, strictly increasing per session
}

// Decision classifies a single message.
type Decision string

const (
	DecisionScam      Decision = "scam"
	DecisionNonScam   Decision = "non_scam"
	DecisionUncertain Decision = "uncertain"
)

// Intent is the classifier verdict for one message.
type Intent struct {
	Decision   Decision `json:"decision"`
	Confidence float64  `json:"confidence"`
	Signals    []string `json:"signals,omitempty"`
}
