package domain

import "time"

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementDef defines one achievement: a stat-based predicate evaluated
// against a UserStats snapshot, plus the reward paid on unlock.
type AchievementDef struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Icon         string               `json:"icon"`
	RewardXP     int64                `json:"reward_xp"`
	RewardTokens int64                `json:"reward_tokens"`
	Skill        Skill                `json:"skill"` // pool the XP reward lands in
	Predicate    func(UserStats) bool `json:"-"`
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// UserStats is a snapshot of user state fed to achievement predicates and
// the summary endpoint.
type UserStats struct {
	JournalEntries    int64 `json:"journal_entries"`
	SeedsBloomed      int64 `json:"seeds_bloomed"`
	WisdomCurrent     int   `json:"wisdom_current"`
	WisdomLongest     int   `json:"wisdom_longest"`
	ReflectionCurrent int   `json:"reflection_current"`
	ReflectionLongest int   `json:"reflection_longest"`
	Tokens            int64 `json:"tokens"`
	FutureMessages    int64 `json:"future_messages"`
	MessagesDelivered int64 `json:"messages_delivered"`
}
