package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Reward Idempotency Ledger ──────────────────────────────────────────────

// ConsumeRewardKey records a reward key as paid out. Returns true only for
// the first call with a given key: the INSERT OR IGNORE against the primary
// key is the atomic insert-if-absent, so concurrent callers can never both
// observe true. A SELECT-then-INSERT pair would be a race and is exactly
// what this method exists to avoid.
func (s *Store) ConsumeRewardKey(key string, at time.Time) (bool, error) {
	result, err := s.q.Exec(
		`INSERT OR IGNORE INTO processed_rewards (reward_key, consumed_at) VALUES (?, ?)`,
		key, at.Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("consume reward key: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

// HasRewardKey reports whether a key has already been consumed.
func (s *Store) HasRewardKey(key string) (bool, error) {
	var count int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM processed_rewards WHERE reward_key = ?`, key).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneRewardKeys deletes keys consumed before the cutoff. Keys must outlive
// plausible retry windows; callers prune with a generous margin.
func (s *Store) PruneRewardKeys(before time.Time) (int64, error) {
	result, err := s.q.Exec(`DELETE FROM processed_rewards WHERE consumed_at < ?`, before.Unix())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ─── Player Skills ──────────────────────────────────────────────────────────

// GetSkills loads a user's XP pools and token balance, returning a fresh
// zero-value record if none exists yet.
func (s *Store) GetSkills(userID string) (domain.PlayerSkills, error) {
	var p domain.PlayerSkills
	err := s.q.QueryRow(
		`SELECT user_id, wisdom_xp, reflection_xp, discipline_xp, tokens
		 FROM player_skills WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.WisdomXP, &p.ReflectionXP, &p.DisciplineXP, &p.Tokens)
	if err == sql.ErrNoRows {
		return domain.PlayerSkills{UserID: userID}, nil
	}
	if err != nil {
		return domain.PlayerSkills{}, fmt.Errorf("get skills %s: %w", userID, err)
	}
	return p, nil
}

// SaveSkills upserts a user's skills record.
func (s *Store) SaveSkills(p domain.PlayerSkills) error {
	_, err := s.q.Exec(
		`INSERT INTO player_skills (user_id, wisdom_xp, reflection_xp, discipline_xp, tokens)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			wisdom_xp=excluded.wisdom_xp,
			reflection_xp=excluded.reflection_xp,
			discipline_xp=excluded.discipline_xp,
			tokens=excluded.tokens`,
		p.UserID, p.WisdomXP, p.ReflectionXP, p.DisciplineXP, p.Tokens,
	)
	if err != nil {
		return fmt.Errorf("save skills %s: %w", p.UserID, err)
	}
	return nil
}

// DailyGranted returns how much XP was already granted to a pool today.
func (s *Store) DailyGranted(userID string, skill domain.Skill, day string) (int64, error) {
	var granted int64
	err := s.q.QueryRow(
		`SELECT granted FROM daily_xp WHERE user_id = ? AND skill = ? AND day = ?`,
		userID, string(skill), day,
	).Scan(&granted)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return granted, err
}

// AddDailyGranted bumps the per-day grant counter for a pool.
func (s *Store) AddDailyGranted(userID string, skill domain.Skill, day string, delta int64) error {
	_, err := s.q.Exec(
		`INSERT INTO daily_xp (user_id, skill, day, granted) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, skill, day) DO UPDATE SET granted = granted + excluded.granted`,
		userID, string(skill), day, delta,
	)
	return err
}
