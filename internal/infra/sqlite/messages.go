package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Future Messages ────────────────────────────────────────────────────────

// InsertFutureMessage stores a message to be delivered later.
func (s *Store) InsertFutureMessage(m domain.FutureMessage) error {
	_, err := s.q.Exec(
		`INSERT INTO future_messages (id, user_id, content, created_at, deliver_at, delivered, delivered_at)
		 VALUES (?, ?, ?, ?, ?, 0, NULL)`,
		m.ID, m.UserID, m.Content, m.CreatedAt.Unix(), m.DeliverAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert future message: %w", err)
	}
	return nil
}

// ListDueMessages returns undelivered messages whose delivery time has
// passed, oldest first.
func (s *Store) ListDueMessages(userID string, now time.Time) ([]domain.FutureMessage, error) {
	rows, err := s.q.Query(
		`SELECT id, user_id, content, created_at, deliver_at, delivered, delivered_at
		 FROM future_messages
		 WHERE user_id = ? AND delivered = 0 AND deliver_at <= ?
		 ORDER BY deliver_at ASC`,
		userID, now.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// ListMessages returns all of a user's messages, newest first.
func (s *Store) ListMessages(userID string) ([]domain.FutureMessage, error) {
	rows, err := s.q.Query(
		`SELECT id, user_id, content, created_at, deliver_at, delivered, delivered_at
		 FROM future_messages WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMessages(rows)
}

// MarkMessageDelivered flags a message delivered at the given instant.
func (s *Store) MarkMessageDelivered(id string, at time.Time) error {
	result, err := s.q.Exec(
		`UPDATE future_messages SET delivered = 1, delivered_at = ? WHERE id = ? AND delivered = 0`,
		at.Unix(), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

// CountMessages returns (total, delivered) counts for a user.
func (s *Store) CountMessages(userID string) (int64, int64, error) {
	var total, delivered int64
	err := s.q.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(delivered), 0) FROM future_messages WHERE user_id = ?`,
		userID,
	).Scan(&total, &delivered)
	return total, delivered, err
}

func collectMessages(rows *sql.Rows) ([]domain.FutureMessage, error) {
	var msgs []domain.FutureMessage
	for rows.Next() {
		var m domain.FutureMessage
		var createdAt, deliverAt int64
		var deliveredAt sql.NullInt64
		err := rows.Scan(&m.ID, &m.UserID, &m.Content, &createdAt, &deliverAt,
			&m.Delivered, &deliveredAt)
		if err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(createdAt, 0)
		m.DeliverAt = time.Unix(deliverAt, 0)
		m.DeliveredAt = unixOrZero(deliveredAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
