package domain

// ─── Reward Keys ────────────────────────────────────────────────────────────

// RewardKey builds the deterministic ledger key for one logical
// reward-granting event. Retries of the same event must produce the same
// key; distinct events must never collide. scope disambiguates within the
// event type — usually a day key or a record ID.
func RewardKey(userID, event, scope string) string {
	return userID + ":" + event + ":" + scope
}

// Reward event names used across the engine.
const (
	EventSeedBloom     = "seed_bloom"
	EventJournalXP     = "journal_xp"
	EventFutureMessage = "future_message"
	EventAchievement   = "achievement"
)

// ─── Player Skills ──────────────────────────────────────────────────────────

// Skill identifies one of the three independent XP pools.
type Skill string

const (
	SkillWisdom     Skill = "wisdom"
	SkillReflection Skill = "reflection"
	SkillDiscipline Skill = "discipline"
)

// Valid reports whether s names a known skill pool.
func (s Skill) Valid() bool {
	return s == SkillWisdom || s == SkillReflection || s == SkillDiscipline
}

// PlayerSkills is a user's aggregate XP pools and token balance.
type PlayerSkills struct {
	UserID       string `json:"user_id"`
	WisdomXP     int64  `json:"wisdom_xp"`
	ReflectionXP int64  `json:"reflection_xp"`
	DisciplineXP int64  `json:"discipline_xp"`
	Tokens       int64  `json:"tokens"`
}

// XP returns the pool value for a skill.
func (p PlayerSkills) XP(s Skill) int64 {
	switch s {
	case SkillWisdom:
		return p.WisdomXP
	case SkillReflection:
		return p.ReflectionXP
	case SkillDiscipline:
		return p.DisciplineXP
	}
	return 0
}

// AddXP adds amount to a skill pool.
func (p *PlayerSkills) AddXP(s Skill, amount int64) {
	switch s {
	case SkillWisdom:
		p.WisdomXP += amount
	case SkillReflection:
		p.ReflectionXP += amount
	case SkillDiscipline:
		p.DisciplineXP += amount
	}
}

// Clip returns how much of a requested XP grant fits under the daily cap,
// given what was already granted today. Over-cap requests clip, never error.
// A cap <= 0 means the pool is uncapped.
func Clip(requested, alreadyGranted, dailyCap int64) int64 {
	if requested <= 0 {
		return 0
	}
	if dailyCap <= 0 {
		return requested
	}
	remaining := dailyCap - alreadyGranted
	if remaining <= 0 {
		return 0
	}
	if requested > remaining {
		return remaining
	}
	return requested
}
