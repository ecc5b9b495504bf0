package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "initial schema",
		SQL: `
			CREATE TABLE sessions (
				id              TEXT PRIMARY KEY,
				scam_detected   INTEGER NOT NULL DEFAULT 0,
				current_goal    TEXT NOT NULL DEFAULT '',
				goal_history    TEXT NOT NULL DEFAULT '[]',
				terminal_state  TEXT NOT NULL DEFAULT 'ACTIVE',
				terminal_reason TEXT NOT NULL DEFAULT '',
				callback_sent   INTEGER NOT NULL DEFAULT 0,
				message_count   INTEGER NOT NULL DEFAULT 0,
				intel           TEXT NOT NULL DEFAULT '{}',
				created_at      TEXT NOT NULL,
				updated_at      TEXT NOT NULL
			);

			CREATE TABLE messages (
				session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
				turn_index INTEGER NOT NULL,
				sender     TEXT NOT NULL,
				text       TEXT NOT NULL,
				timestamp  TEXT NOT NULL,
				PRIMARY KEY (session_id, turn_index)
			);

			CREATE INDEX idx_messages_session ON messages(session_id);
		`,
	},
	{
		Version: 2,
		Name:    "dead letters",
		SQL: `
			CREATE TABLE dead_letters (
				id         TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				payload    TEXT NOT NULL,
				reason     TEXT NOT NULL,
				created_at TEXT NOT NULL
			);

			CREATE INDEX idx_dead_letters_session ON dead_letters(session_id);
		`,
	},
}
