// Package sqlite provides SQLite-based persistent storage for Prody.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Streak counters: one row per (user, track). Day columns hold
		// calendar-day keys ("2006-01-02"); instants are unix seconds.
		`CREATE TABLE IF NOT EXISTS streaks (
			user_id        TEXT NOT NULL,
			track          TEXT NOT NULL,
			current        INTEGER NOT NULL DEFAULT 0,
			longest        INTEGER NOT NULL DEFAULT 0,
			last_day       TEXT NOT NULL DEFAULT '',
			grace_used     BOOLEAN NOT NULL DEFAULT 0,
			grace_used_at  INTEGER,
			grace_reset_at INTEGER,
			PRIMARY KEY (user_id, track)
		)`,

		// Reward idempotency ledger. The primary key IS the idempotency
		// gate: INSERT OR IGNORE is the atomic insert-if-absent.
		`CREATE TABLE IF NOT EXISTS processed_rewards (
			reward_key  TEXT PRIMARY KEY,
			consumed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rewards_consumed ON processed_rewards(consumed_at)`,

		// Daily content challenges: exactly one per (user, day).
		`CREATE TABLE IF NOT EXISTS seeds (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id        TEXT NOT NULL,
			day            TEXT NOT NULL,
			seed_type      TEXT NOT NULL,
			content        TEXT NOT NULL,
			match_data     TEXT NOT NULL DEFAULT '{}',
			state          TEXT NOT NULL DEFAULT 'PLANTED',
			bloomed_at     INTEGER,
			bloomed_in     TEXT,
			bloomed_ref    TEXT,
			reward_claimed BOOLEAN NOT NULL DEFAULT 0,
			UNIQUE(user_id, day)
		)`,

		// Aggregate XP pools and token balance.
		`CREATE TABLE IF NOT EXISTS player_skills (
			user_id       TEXT PRIMARY KEY,
			wisdom_xp     INTEGER NOT NULL DEFAULT 0,
			reflection_xp INTEGER NOT NULL DEFAULT 0,
			discipline_xp INTEGER NOT NULL DEFAULT 0,
			tokens        INTEGER NOT NULL DEFAULT 0
		)`,

		// Per-day XP grant tracking, for the daily caps.
		`CREATE TABLE IF NOT EXISTS daily_xp (
			user_id TEXT NOT NULL,
			skill   TEXT NOT NULL,
			day     TEXT NOT NULL,
			granted INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, skill, day)
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			content    TEXT NOT NULL,
			mood       TEXT NOT NULL DEFAULT '',
			word_count INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_user_created ON journal_entries(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS future_messages (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL,
			content      TEXT NOT NULL,
			created_at   INTEGER NOT NULL,
			deliver_at   INTEGER NOT NULL,
			delivered    BOOLEAN NOT NULL DEFAULT 0,
			delivered_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_due ON future_messages(delivered, deliver_at)`,

		// Unlocked achievements, keyed per user.
		`CREATE TABLE IF NOT EXISTS achievements (
			user_id     TEXT NOT NULL,
			id          TEXT NOT NULL,
			unlocked_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, id)
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Store / Transactions ───────────────────────────────────────────────────
// All typed row operations live on Store, which runs over either the bare
// connection or a transaction. Read-modify-write operations (maintain,
// grace, bloom) must go through Tx so they commit or roll back as a unit.

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store exposes typed row operations over a connection or transaction.
type Store struct {
	q querier
}

// Store returns a Store over the bare connection, for single-statement
// operations and reads.
func (d *DB) Store() *Store {
	return &Store{q: d.db}
}

// Tx runs fn inside a transaction, committing on nil and rolling back on
// error.
func (d *DB) Tx(fn func(s *Store) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&Store{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func unixOrZero(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(n.Int64, 0)
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
