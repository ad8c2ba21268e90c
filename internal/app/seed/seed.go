// Package seed manages the daily content challenge: one seed per user per
// calendar day, moving PLANTED → GROWING → BLOOMED as the user engages with
// it and finally uses it in their own writing.
package seed

import (
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/metrics"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Rewards is the payout for a bloom.
type Rewards struct {
	XP     int64
	Tokens int64
}

// Service manages seed lifecycle and bloom matching.
type Service struct {
	db      *sqlite.DB
	ledger  *reward.Ledger
	skills  *reward.Skills
	rewards Rewards
}

// NewService creates a seed service.
func NewService(db *sqlite.DB, ledger *reward.Ledger, skills *reward.Skills, rewards Rewards) *Service {
	return &Service{db: db, ledger: ledger, skills: skills, rewards: rewards}
}

// Today returns the seed for now's calendar day, planting one if the day
// has none yet (lazy get-or-create).
func (s *Service) Today(userID string, now time.Time) (domain.Seed, error) {
	var seed domain.Seed
	err := s.db.Tx(func(st *sqlite.Store) error {
		var err error
		seed, err = getOrCreate(st, userID, now)
		return err
	})
	return seed, err
}

// RecordEngagement notes that the user engaged with today's seed (opened
// the detail view, saved it) without yet satisfying the bloom condition.
// PLANTED moves to GROWING; repeated engagement is a no-op, and a BLOOMED
// seed never regresses.
func (s *Service) RecordEngagement(userID string, now time.Time) (domain.Seed, error) {
	var seed domain.Seed
	err := s.db.Tx(func(st *sqlite.Store) error {
		var err error
		seed, err = getOrCreate(st, userID, now)
		if err != nil {
			return err
		}
		if seed.State != domain.SeedPlanted {
			return nil
		}
		seed.State = domain.SeedGrowing
		return st.SetSeedState(seed.ID, domain.SeedGrowing)
	})
	return seed, err
}

// AttemptBloom checks free-text input against today's seed. On a match the
// seed moves to BLOOMED and the reward is paid exactly once: the payout is
// gated through the ledger with a (user, day, bloom) key, so a retried
// attempt cannot double-pay even if it somehow got past the state check.
// "Already bloomed" and "no match" are expected results, not errors.
func (s *Service) AttemptBloom(userID string, now time.Time, text, inContext, ref string) (domain.BloomResult, error) {
	var res domain.BloomResult
	err := s.db.Tx(func(st *sqlite.Store) error {
		seed, err := getOrCreate(st, userID, now)
		if err != nil {
			return err
		}

		if seed.State == domain.SeedBloomed {
			res = domain.BloomResult{Status: domain.BloomStatusAlready, Seed: seed}
			return nil
		}
		if !seed.Matches(text) {
			res = domain.BloomResult{Status: domain.BloomStatusNoMatch, Seed: seed}
			return nil
		}

		if err := st.BloomSeed(seed.ID, now, inContext, ref); err != nil {
			return fmt.Errorf("bloom seed: %w", err)
		}
		seed.State = domain.SeedBloomed
		seed.BloomedAt = now
		seed.BloomedIn = inContext
		seed.BloomedRef = ref

		res = domain.BloomResult{Status: domain.BloomStatusBloomed, Seed: seed}
		return nil
	})
	if err != nil {
		return domain.BloomResult{}, err
	}

	if res.Status == domain.BloomStatusBloomed {
		metrics.SeedsBloomed.Inc()
		if err := s.claimReward(&res, now); err != nil {
			return res, err
		}
	}
	return res, nil
}

// claimReward pays the bloom reward at most once per (user, day).
func (s *Service) claimReward(res *domain.BloomResult, now time.Time) error {
	seed := res.Seed
	key := domain.RewardKey(seed.UserID, domain.EventSeedBloom, seed.Day)
	fresh, err := s.ledger.TryConsume(key, now)
	if err != nil {
		return err
	}
	if !fresh {
		return nil // already paid on an earlier attempt
	}

	if s.rewards.XP > 0 {
		granted, err := s.skills.GrantXP(seed.UserID, domain.SkillWisdom, s.rewards.XP, now)
		if err != nil {
			return fmt.Errorf("bloom xp: %w", err)
		}
		res.XPGranted = granted
	}
	if s.rewards.Tokens > 0 {
		if err := s.skills.AddTokens(seed.UserID, s.rewards.Tokens); err != nil {
			return fmt.Errorf("bloom tokens: %w", err)
		}
		res.TokensGranted = s.rewards.Tokens
	}

	if err := s.db.Store().MarkSeedRewardClaimed(seed.ID); err != nil {
		return err
	}
	res.Seed.RewardClaimed = true
	return nil
}

// getOrCreate loads the day's seed, planting it on first access.
func getOrCreate(st *sqlite.Store, userID string, now time.Time) (domain.Seed, error) {
	day := domain.DayKey(now)

	existing, err := st.GetSeed(userID, day)
	if err != nil {
		return domain.Seed{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	seed := seedForDay(userID, day)
	id, err := st.InsertSeed(seed)
	if err != nil {
		return domain.Seed{}, fmt.Errorf("plant seed: %w", err)
	}
	seed.ID = id
	return seed, nil
}
