package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Seeds ──────────────────────────────────────────────────────────────────

// GetSeed loads the seed for (user, day). Returns nil, nil when no seed has
// been planted for that day yet.
func (s *Store) GetSeed(userID, day string) (*domain.Seed, error) {
	row := s.q.QueryRow(
		`SELECT id, user_id, day, seed_type, content, match_data, state,
		        bloomed_at, bloomed_in, bloomed_ref, reward_claimed
		 FROM seeds WHERE user_id = ? AND day = ?`,
		userID, day,
	)
	seed, err := scanSeed(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get seed %s/%s: %w", userID, day, err)
	}
	return &seed, nil
}

// InsertSeed plants a seed. The UNIQUE(user_id, day) constraint guarantees
// at most one per day; an insert race loses cleanly with an error the
// caller resolves by re-reading.
func (s *Store) InsertSeed(seed domain.Seed) (int64, error) {
	matchData, err := json.Marshal(seed.Match)
	if err != nil {
		return 0, fmt.Errorf("encode match data: %w", err)
	}

	result, err := s.q.Exec(
		`INSERT INTO seeds (user_id, day, seed_type, content, match_data, state, reward_claimed)
		 VALUES (?, ?, ?, ?, ?, ?, 0)`,
		seed.UserID, seed.Day, string(seed.Type), seed.Content, string(matchData), string(seed.State),
	)
	if err != nil {
		return 0, fmt.Errorf("insert seed %s/%s: %w", seed.UserID, seed.Day, err)
	}
	return result.LastInsertId()
}

// SetSeedState moves a seed to a new state.
func (s *Store) SetSeedState(id int64, state domain.SeedState) error {
	_, err := s.q.Exec(`UPDATE seeds SET state = ? WHERE id = ?`, string(state), id)
	return err
}

// BloomSeed marks a seed BLOOMED with its bloom context.
func (s *Store) BloomSeed(id int64, at time.Time, inContext, ref string) error {
	_, err := s.q.Exec(
		`UPDATE seeds SET state = ?, bloomed_at = ?, bloomed_in = ?, bloomed_ref = ?
		 WHERE id = ?`,
		string(domain.SeedBloomed), at.Unix(), nullStr(inContext), nullStr(ref), id,
	)
	return err
}

// MarkSeedRewardClaimed records that the bloom reward was paid out.
func (s *Store) MarkSeedRewardClaimed(id int64) error {
	_, err := s.q.Exec(`UPDATE seeds SET reward_claimed = 1 WHERE id = ?`, id)
	return err
}

// CountBloomedSeeds returns how many of a user's seeds ever bloomed.
func (s *Store) CountBloomedSeeds(userID string) (int64, error) {
	var count int64
	err := s.q.QueryRow(
		`SELECT COUNT(*) FROM seeds WHERE user_id = ? AND state = ?`,
		userID, string(domain.SeedBloomed),
	).Scan(&count)
	return count, err
}

func scanSeed(s scanner) (domain.Seed, error) {
	var seed domain.Seed
	var seedType, state, matchData string
	var bloomedAt sql.NullInt64
	var bloomedIn, bloomedRef sql.NullString

	err := s.Scan(&seed.ID, &seed.UserID, &seed.Day, &seedType, &seed.Content,
		&matchData, &state, &bloomedAt, &bloomedIn, &bloomedRef, &seed.RewardClaimed)
	if err != nil {
		return domain.Seed{}, err
	}

	seed.Type = domain.SeedType(seedType)
	seed.State = domain.SeedState(state)
	seed.BloomedAt = unixOrZero(bloomedAt)
	seed.BloomedIn = bloomedIn.String
	seed.BloomedRef = bloomedRef.String
	if err := json.Unmarshal([]byte(matchData), &seed.Match); err != nil {
		return domain.Seed{}, fmt.Errorf("decode match data: %w", err)
	}
	return seed, nil
}
