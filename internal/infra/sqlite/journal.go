package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Journal Entries ────────────────────────────────────────────────────────

// InsertJournalEntry stores a new entry.
func (s *Store) InsertJournalEntry(e domain.JournalEntry) error {
	_, err := s.q.Exec(
		`INSERT INTO journal_entries (id, user_id, content, mood, word_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Content, e.Mood, e.WordCount, e.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// GetJournalEntry retrieves one entry by ID.
func (s *Store) GetJournalEntry(id string) (*domain.JournalEntry, error) {
	row := s.q.QueryRow(
		`SELECT id, user_id, content, mood, word_count, created_at
		 FROM journal_entries WHERE id = ?`, id,
	)
	e, err := scanJournalEntry(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListJournalEntries returns a user's entries, newest first.
func (s *Store) ListJournalEntries(userID string, limit int) ([]domain.JournalEntry, error) {
	rows, err := s.q.Query(
		`SELECT id, user_id, content, mood, word_count, created_at
		 FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		e, err := scanJournalEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountJournalEntries returns a user's total entry count.
func (s *Store) CountJournalEntries(userID string) (int64, error) {
	var count int64
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM journal_entries WHERE user_id = ?`, userID,
	).Scan(&count)
	return count, err
}

func scanJournalEntry(s scanner) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	var createdAt int64
	err := s.Scan(&e.ID, &e.UserID, &e.Content, &e.Mood, &e.WordCount, &createdAt)
	if err != nil {
		return domain.JournalEntry{}, err
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	return e, nil
}
