// Package reward implements the reward idempotency ledger and the player
// skills (XP pools + token balance) it pays into.
// Every payout is gated by a deterministic reward key: retries of the same
// logical event hit the same key and pay at most once.
package reward

import (
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/metrics"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// KeyRetention is how long consumed reward keys are kept before pruning.
// Generously beyond any plausible retry or sync-replay window.
const KeyRetention = 90 * 24 * time.Hour

// Ledger guarantees at-most-once payout per reward key.
type Ledger struct {
	db *sqlite.DB
}

// NewLedger creates a reward ledger.
func NewLedger(db *sqlite.DB) *Ledger {
	return &Ledger{db: db}
}

// TryConsume durably records the key and returns true the first time it is
// called for that key; every later call returns false and the caller must
// treat the reward as already paid. Safe under concurrent calls: the store
// does an atomic insert-if-absent, so exactly one caller observes true.
func (l *Ledger) TryConsume(key string, now time.Time) (bool, error) {
	consumed, err := l.db.Store().ConsumeRewardKey(key, now)
	if err != nil {
		return false, fmt.Errorf("try consume %q: %w", key, err)
	}
	return consumed, nil
}

// Prune drops keys older than the retention window.
func (l *Ledger) Prune(now time.Time) (int64, error) {
	return l.db.Store().PruneRewardKeys(now.Add(-KeyRetention))
}

// ─── Player Skills ──────────────────────────────────────────────────────────

// Caps holds the per-day XP grant caps, one per pool. Zero means uncapped.
type Caps struct {
	Wisdom     int64
	Reflection int64
	Discipline int64
}

// For returns the cap for a skill.
func (c Caps) For(skill domain.Skill) int64 {
	switch skill {
	case domain.SkillWisdom:
		return c.Wisdom
	case domain.SkillReflection:
		return c.Reflection
	case domain.SkillDiscipline:
		return c.Discipline
	}
	return 0
}

// Skills manages the XP pools and token balance.
type Skills struct {
	db   *sqlite.DB
	caps Caps
}

// NewSkills creates a skills service with the given daily caps.
func NewSkills(db *sqlite.DB, caps Caps) *Skills {
	return &Skills{db: db, caps: caps}
}

// Get returns a user's skills record, zero-valued if never granted.
func (k *Skills) Get(userID string) (domain.PlayerSkills, error) {
	return k.db.Store().GetSkills(userID)
}

// GrantXP adds XP to a pool, clipped to the day's remaining cap. Returns
// how much was actually granted; an over-cap grant clips to zero rather
// than erroring. The read-clip-write runs as one transaction.
func (k *Skills) GrantXP(userID string, skill domain.Skill, amount int64, now time.Time) (int64, error) {
	if !skill.Valid() {
		return 0, fmt.Errorf("grant %q: %w", skill, domain.ErrUnknownSkill)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("xp amount must be positive, got %d", amount)
	}

	day := domain.DayKey(now)
	var granted int64
	err := k.db.Tx(func(st *sqlite.Store) error {
		already, err := st.DailyGranted(userID, skill, day)
		if err != nil {
			return fmt.Errorf("daily granted: %w", err)
		}

		granted = domain.Clip(amount, already, k.caps.For(skill))
		if granted == 0 {
			return nil // capped out for today
		}

		if err := st.AddDailyGranted(userID, skill, day, granted); err != nil {
			return fmt.Errorf("track daily grant: %w", err)
		}

		skills, err := st.GetSkills(userID)
		if err != nil {
			return err
		}
		skills.AddXP(skill, granted)
		return st.SaveSkills(skills)
	})
	if err != nil {
		return 0, err
	}

	if granted > 0 {
		metrics.XPGranted.WithLabelValues(string(skill)).Add(float64(granted))
	}
	return granted, nil
}

// AddTokens adjusts the token balance. Tokens have no daily cap.
func (k *Skills) AddTokens(userID string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("token amount must be positive, got %d", amount)
	}
	return k.db.Tx(func(st *sqlite.Store) error {
		skills, err := st.GetSkills(userID)
		if err != nil {
			return err
		}
		skills.Tokens += amount
		if err := st.SaveSkills(skills); err != nil {
			return err
		}
		metrics.TokensEarned.Add(float64(amount))
		return nil
	})
}
