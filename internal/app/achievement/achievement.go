// Package achievement evaluates stat-based achievements against a snapshot
// of user state. Unlocks are idempotent; payouts route through the reward
// ledger like every other payout in the engine.
package achievement

import (
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Service manages the achievement catalog.
type Service struct {
	db          *sqlite.DB
	ledger      *reward.Ledger
	skills      *reward.Skills
	definitions []domain.AchievementDef
}

// NewService creates an achievement service with the full catalog.
func NewService(db *sqlite.DB, ledger *reward.Ledger, skills *reward.Skills) *Service {
	return &Service{
		db:          db,
		ledger:      ledger,
		skills:      skills,
		definitions: AllAchievements(),
	}
}

// Snapshot assembles the UserStats fed to predicates and the summary API.
func (a *Service) Snapshot(userID string) (domain.UserStats, error) {
	st := a.db.Store()
	var stats domain.UserStats
	var err error

	if stats.JournalEntries, err = st.CountJournalEntries(userID); err != nil {
		return stats, fmt.Errorf("count entries: %w", err)
	}
	if stats.SeedsBloomed, err = st.CountBloomedSeeds(userID); err != nil {
		return stats, fmt.Errorf("count blooms: %w", err)
	}

	streaks, err := st.ListStreaks(userID)
	if err != nil {
		return stats, fmt.Errorf("list streaks: %w", err)
	}
	for _, s := range streaks {
		switch s.Track {
		case domain.TrackWisdom:
			stats.WisdomCurrent, stats.WisdomLongest = s.Current, s.Longest
		case domain.TrackReflection:
			stats.ReflectionCurrent, stats.ReflectionLongest = s.Current, s.Longest
		}
	}

	skills, err := st.GetSkills(userID)
	if err != nil {
		return stats, err
	}
	stats.Tokens = skills.Tokens

	if stats.FutureMessages, stats.MessagesDelivered, err = st.CountMessages(userID); err != nil {
		return stats, fmt.Errorf("count messages: %w", err)
	}

	return stats, nil
}

// CheckAndUnlock evaluates all achievements against current stats.
// Returns newly unlocked achievements (already-unlocked are skipped).
func (a *Service) CheckAndUnlock(userID string, stats domain.UserStats, now time.Time) ([]domain.AchievementDef, error) {
	var newlyUnlocked []domain.AchievementDef

	for _, def := range a.definitions {
		if def.Predicate == nil || !def.Predicate(stats) {
			continue
		}

		isNew, err := a.db.Store().UnlockAchievement(userID, def.ID, now)
		if err != nil {
			return nil, err
		}
		if !isNew {
			continue
		}

		// Unlock row is already the once-only gate; the ledger key is a
		// second guard so a payout replayed across a restore cannot repeat.
		key := domain.RewardKey(userID, domain.EventAchievement, def.ID)
		fresh, err := a.ledger.TryConsume(key, now)
		if err != nil {
			return nil, err
		}
		if fresh {
			if def.RewardXP > 0 {
				if _, err := a.skills.GrantXP(userID, def.Skill, def.RewardXP, now); err != nil {
					return nil, fmt.Errorf("achievement xp: %w", err)
				}
			}
			if def.RewardTokens > 0 {
				if err := a.skills.AddTokens(userID, def.RewardTokens); err != nil {
					return nil, fmt.Errorf("achievement tokens: %w", err)
				}
			}
		}

		newlyUnlocked = append(newlyUnlocked, def)
	}

	return newlyUnlocked, nil
}

// ListUnlocked returns all achievements the user has earned.
func (a *Service) ListUnlocked(userID string) ([]domain.UnlockedAchievement, error) {
	return a.db.Store().ListUnlockedAchievements(userID)
}

// TotalCount returns the catalog size.
func (a *Service) TotalCount() int {
	return len(a.definitions)
}

// Definitions returns the full catalog (for display).
func (a *Service) Definitions() []domain.AchievementDef {
	return a.definitions
}

// ─── Achievement Definitions ────────────────────────────────────────────────

// AllAchievements returns the full achievement catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		{
			ID: "first_entry", Name: "First Words", Icon: "✍️",
			RewardXP: 50, RewardTokens: 10, Skill: domain.SkillReflection,
			Predicate: func(s domain.UserStats) bool { return s.JournalEntries >= 1 },
		},
		{
			ID: "entries_10", Name: "Finding a Rhythm", Icon: "📓",
			RewardXP: 150, RewardTokens: 25, Skill: domain.SkillReflection,
			Predicate: func(s domain.UserStats) bool { return s.JournalEntries >= 10 },
		},
		{
			ID: "entries_100", Name: "Chronicler", Icon: "📚",
			RewardXP: 1000, RewardTokens: 200, Skill: domain.SkillReflection,
			Predicate: func(s domain.UserStats) bool { return s.JournalEntries >= 100 },
		},
		{
			ID: "first_bloom", Name: "First Bloom", Icon: "🌱",
			RewardXP: 50, RewardTokens: 15, Skill: domain.SkillWisdom,
			Predicate: func(s domain.UserStats) bool { return s.SeedsBloomed >= 1 },
		},
		{
			ID: "blooms_10", Name: "Gardener", Icon: "🌿",
			RewardXP: 300, RewardTokens: 50, Skill: domain.SkillWisdom,
			Predicate: func(s domain.UserStats) bool { return s.SeedsBloomed >= 10 },
		},
		{
			ID: "blooms_30", Name: "Full Bloom", Icon: "🌸",
			RewardXP: 800, RewardTokens: 150, Skill: domain.SkillWisdom,
			Predicate: func(s domain.UserStats) bool { return s.SeedsBloomed >= 30 },
		},
		{
			ID: "wisdom_streak_7", Name: "Week of Wisdom", Icon: "🔥",
			RewardXP: 200, RewardTokens: 30, Skill: domain.SkillWisdom,
			Predicate: func(s domain.UserStats) bool { return s.WisdomCurrent >= 7 },
		},
		{
			ID: "reflection_streak_7", Name: "Seven Days Deep", Icon: "🪞",
			RewardXP: 250, RewardTokens: 40, Skill: domain.SkillReflection,
			Predicate: func(s domain.UserStats) bool { return s.ReflectionCurrent >= 7 },
		},
		{
			ID: "reflection_streak_30", Name: "Monthly Mirror", Icon: "🌙",
			RewardXP: 1200, RewardTokens: 250, Skill: domain.SkillReflection,
			Predicate: func(s domain.UserStats) bool { return s.ReflectionCurrent >= 30 },
		},
		{
			ID: "longest_14", Name: "Fortnight", Icon: "📅",
			RewardXP: 300, RewardTokens: 60, Skill: domain.SkillDiscipline,
			Predicate: func(s domain.UserStats) bool {
				return s.WisdomLongest >= 14 || s.ReflectionLongest >= 14
			},
		},
		{
			ID: "first_message", Name: "Dear Future Me", Icon: "💌",
			RewardXP: 100, RewardTokens: 20, Skill: domain.SkillDiscipline,
			Predicate: func(s domain.UserStats) bool { return s.FutureMessages >= 1 },
		},
		{
			ID: "tokens_100", Name: "Saver", Icon: "🪙",
			RewardXP: 100, RewardTokens: 0, Skill: domain.SkillDiscipline,
			Predicate: func(s domain.UserStats) bool { return s.Tokens >= 100 },
		},
	}
}
