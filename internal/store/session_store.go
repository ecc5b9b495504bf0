package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/varunhm/honeynet/internal/domain"
)

// SQLiteSessionStore implements engine.SessionStore backed by SQLite.
// Saves are transactional at whole-session granularity: a partial write is
// never observable.
type SQLiteSessionStore struct {
	db *DB
}

// NewSQLiteSessionStore creates a session store using the given database.
func NewSQLiteSessionStore(db *DB) *SQLiteSessionStore {
	return &SQLiteSessionStore{db: db}
}

// Load returns the session with the given id, or nil if it does not exist.
// A missing session is not an error; callers treat it as a new session.
func (s *SQLiteSessionStore) Load(id string) (*domain.Session, error) {
	var (
		sess                 domain.Session
		scamDetected, cbSent int
		goalHistory, intel   string
		createdAt, updatedAt string
	)

	err := s.db.sql.QueryRow(
		`SELECT id, scam_detected, current_goal, goal_history, terminal_state, terminal_reason,
		        callback_sent, message_count, intel, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(
		&sess.ID, &scamDetected, &sess.CurrentGoal, &goalHistory, &sess.Terminal,
		&sess.TerminalReason, &cbSent, &sess.MessageCount, &intel, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}

	sess.ScamDetected = scamDetected != 0
	sess.CallbackSent = cbSent != 0
	if sess.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}

	if err := json.Unmarshal([]byte(goalHistory), &sess.GoalHistory); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	sess.Intel = domain.NewSnapshot()
	if err := json.Unmarshal([]byte(intel), &sess.Intel); err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}

	msgs, err := s.loadMessages(id)
	if err != nil {
		return nil, err
	}
	sess.Messages = msgs
	return &sess, nil
}

// Save persists the whole session in a single transaction. Messages are
// append-only: rows for already-stored turn indexes are left untouched.
func (s *SQLiteSessionStore) Save(sess *domain.Session) error {
	goalHistory, err := json.Marshal(sess.GoalHistory)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	if sess.GoalHistory == nil {
		goalHistory = []byte("[]")
	}
	intel, err := json.Marshal(sess.Intel)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}

	tx, err := s.db.sql.Begin()
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, scam_detected, current_goal, goal_history, terminal_state,
		                       terminal_reason, callback_sent, message_count, intel, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   scam_detected   = excluded.scam_detected,
		   current_goal    = excluded.current_goal,
		   goal_history    = excluded.goal_history,
		   terminal_state  = excluded.terminal_state,
		   terminal_reason = excluded.terminal_reason,
		   callback_sent   = MAX(sessions.callback_sent, excluded.callback_sent),
		   message_count   = excluded.message_count,
		   intel           = excluded.intel,
		   updated_at      = excluded.updated_at`,
		sess.ID, boolInt(sess.ScamDetected), string(sess.CurrentGoal), string(goalHistory),
		string(sess.Terminal), string(sess.TerminalReason), boolInt(sess.CallbackSent),
		sess.MessageCount, string(intel),
		sess.CreatedAt.UTC().Format(time.RFC3339), sess.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}

	for _, msg := range sess.Messages {
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO messages (session_id, turn_index, sender, text, timestamp)
			 VALUES (?, ?, ?, ?, ?)`,
			sess.ID, msg.TurnIndex, msg.Sender, msg.Text, msg.Timestamp.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return &domain.StorageError{Op: "save", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "save", Err: err}
	}
	return nil
}

// MarkCallbackSent atomically flips callback_sent from 0 to 1 for the
// session. It returns true only for the single caller that performed the
// transition, which is what makes callback delivery at-most-once.
func (s *SQLiteSessionStore) MarkCallbackSent(id string) (bool, error) {
	res, err := s.db.sql.Exec(
		`UPDATE sessions SET callback_sent = 1 WHERE id = ? AND callback_sent = 0`, id,
	)
	if err != nil {
		return false, &domain.StorageError{Op: "mark-callback", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StorageError{Op: "mark-callback", Err: err}
	}
	return n == 1, nil
}

// RecordDeadLetter stores a permanently failed callback delivery for
// out-of-band handling.
func (s *SQLiteSessionStore) RecordDeadLetter(payload domain.CallbackPayload, reason string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return &domain.StorageError{Op: "dead-letter", Err: err}
	}
	_, err = s.db.sql.Exec(
		`INSERT INTO dead_letters (id, session_id, payload, reason, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), payload.SessionID, string(data), reason,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return &domain.StorageError{Op: "dead-letter", Err: err}
	}
	return nil
}

// List returns all session ids, most recently updated first.
func (s *SQLiteSessionStore) List() ([]string, error) {
	rows, err := s.db.sql.Query(`SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &domain.StorageError{Op: "list", Err: err}
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeadLetters returns recorded delivery failures for a session (all
// sessions when id is empty).
func (s *SQLiteSessionStore) DeadLetters(sessionID string) ([]DeadLetter, error) {
	query := `SELECT id, session_id, payload, reason, created_at FROM dead_letters`
	args := []any{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.sql.Query(query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "dead-letters", Err: err}
	}
	defer rows.Close()

	var letters []DeadLetter
	for rows.Next() {
		var dl DeadLetter
		var createdAt string
		if err := rows.Scan(&dl.ID, &dl.SessionID, &dl.Payload, &dl.Reason, &createdAt); err != nil {
			return nil, &domain.StorageError{Op: "dead-letters", Err: err}
		}
		if dl.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, &domain.StorageError{Op: "dead-letters", Err: err}
		}
		letters = append(letters, dl)
	}
	return letters, rows.Err()
}

// DeadLetter is a recorded permanent delivery failure.
type DeadLetter struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Payload   string    `json:"payload"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *SQLiteSessionStore) loadMessages(sessionID string) ([]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT turn_index, sender, text, timestamp
		 FROM messages WHERE session_id = ? ORDER BY turn_index`, sessionID,
	)
	if err != nil {
		return nil, &domain.StorageError{Op: "load", Err: err}
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var ts string
		if err := rows.Scan(&msg.TurnIndex, &msg.Sender, &msg.Text, &ts); err != nil {
			return nil, &domain.StorageError{Op: "load", Err: err}
		}
		if msg.Timestamp, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, &domain.StorageError{Op: "load", Err: err}
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
