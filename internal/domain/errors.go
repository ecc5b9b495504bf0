package domain

import "fmt"

// ValidationError marks a malformed inbound message. The turn is rejected
// and no session state is mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExtractionError marks a single matcher or enrichment failure. The
// indicator is dropped; the turn continues.
type ExtractionError struct {
	Category Category
	Value    string
	Reason   string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s %q: %s", e.Category, e.Value, e.Reason)
}

// StorageError wraps a session load/save failure. The whole turn fails and
// is retryable by the caller; no partial state is persisted.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// DeliveryError wraps a callback delivery failure after retries were
// exhausted. It never affects the reply path.
type DeliveryError struct {
	SessionID string
	Attempts  int
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("callback delivery for session %s failed after %d attempts: %v", e.SessionID, e.Attempts, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
