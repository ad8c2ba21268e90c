package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Streaks ────────────────────────────────────────────────────────────────

// GetStreak loads one track's streak, returning a fresh zero-value record
// if the user has never maintained that track.
func (s *Store) GetStreak(userID string, track domain.StreakTrack) (domain.Streak, error) {
	row := s.q.QueryRow(
		`SELECT user_id, track, current, longest, last_day, grace_used, grace_used_at, grace_reset_at
		 FROM streaks WHERE user_id = ? AND track = ?`,
		userID, string(track),
	)

	streak, err := scanStreak(row)
	if err == sql.ErrNoRows {
		return domain.Streak{UserID: userID, Track: track}, nil
	}
	if err != nil {
		return domain.Streak{}, fmt.Errorf("get streak %s/%s: %w", userID, track, err)
	}
	return streak, nil
}

// UpsertStreak writes a streak record, creating it on first maintenance.
func (s *Store) UpsertStreak(streak domain.Streak) error {
	_, err := s.q.Exec(
		`INSERT INTO streaks (user_id, track, current, longest, last_day, grace_used, grace_used_at, grace_reset_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, track) DO UPDATE SET
			current=excluded.current,
			longest=excluded.longest,
			last_day=excluded.last_day,
			grace_used=excluded.grace_used,
			grace_used_at=excluded.grace_used_at,
			grace_reset_at=excluded.grace_reset_at`,
		streak.UserID, string(streak.Track), streak.Current, streak.Longest,
		streak.LastDay, streak.GraceUsed,
		nullableUnix(streak.GraceUsedAt), nullableUnix(streak.GraceResetAt),
	)
	if err != nil {
		return fmt.Errorf("upsert streak %s/%s: %w", streak.UserID, streak.Track, err)
	}
	return nil
}

// ListStreaks returns all persisted streaks for a user.
func (s *Store) ListStreaks(userID string) ([]domain.Streak, error) {
	rows, err := s.q.Query(
		`SELECT user_id, track, current, longest, last_day, grace_used, grace_used_at, grace_reset_at
		 FROM streaks WHERE user_id = ? ORDER BY track`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streaks []domain.Streak
	for rows.Next() {
		streak, err := scanStreak(rows)
		if err != nil {
			return nil, err
		}
		streaks = append(streaks, streak)
	}
	return streaks, rows.Err()
}

func scanStreak(s scanner) (domain.Streak, error) {
	var streak domain.Streak
	var track string
	var usedAt, resetAt sql.NullInt64

	err := s.Scan(&streak.UserID, &track, &streak.Current, &streak.Longest,
		&streak.LastDay, &streak.GraceUsed, &usedAt, &resetAt)
	if err != nil {
		return domain.Streak{}, err
	}

	streak.Track = domain.StreakTrack(track)
	streak.GraceUsedAt = unixOrZero(usedAt)
	streak.GraceResetAt = unixOrZero(resetAt)
	return streak, nil
}
