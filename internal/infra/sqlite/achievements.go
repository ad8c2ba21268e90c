package sqlite

import (
	"time"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Achievements ───────────────────────────────────────────────────────────

// UnlockAchievement records an achievement as unlocked.
// Returns false if already unlocked (idempotent).
func (s *Store) UnlockAchievement(userID, id string, at time.Time) (bool, error) {
	result, err := s.q.Exec(
		`INSERT OR IGNORE INTO achievements (user_id, id, unlocked_at) VALUES (?, ?, ?)`,
		userID, id, at.Unix(),
	)
	if err != nil {
		return false, err
	}
	n, _ := result.RowsAffected()
	return n > 0, nil // true = newly unlocked
}

// IsAchievementUnlocked checks whether an achievement has been unlocked.
func (s *Store) IsAchievementUnlocked(userID, id string) (bool, error) {
	var count int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM achievements WHERE user_id = ? AND id = ?`, userID, id,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUnlockedAchievements returns a user's unlocked achievements, newest
// first.
func (s *Store) ListUnlockedAchievements(userID string) ([]domain.UnlockedAchievement, error) {
	rows, err := s.q.Query(
		`SELECT id, unlocked_at FROM achievements WHERE user_id = ? ORDER BY unlocked_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []domain.UnlockedAchievement
	for rows.Next() {
		var a domain.UnlockedAchievement
		var unlockedAt int64
		if err := rows.Scan(&a.ID, &unlockedAt); err != nil {
			return nil, err
		}
		a.UnlockedAt = time.Unix(unlockedAt, 0)
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// UnlockedAchievementCount returns how many achievements a user has.
func (s *Store) UnlockedAchievementCount(userID string) (int, error) {
	var count int
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM achievements WHERE user_id = ?`, userID,
	).Scan(&count)
	return count, err
}
