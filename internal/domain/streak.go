package domain

import "time"

// ─── Streak Types ───────────────────────────────────────────────────────────

// StreakTrack identifies one of the two independent streak counters.
// The wisdom track is the quick-engagement habit hook (viewing the daily
// content); the reflection track is deep engagement (journaling). They carry
// different reward weight on purpose — folding them into one counter would
// wash out that distinction.
type StreakTrack string

const (
	TrackWisdom     StreakTrack = "wisdom"
	TrackReflection StreakTrack = "reflection"
)

// Tracks lists all streak tracks in display order.
func Tracks() []StreakTrack {
	return []StreakTrack{TrackWisdom, TrackReflection}
}

// Valid reports whether t names a known track.
func (t StreakTrack) Valid() bool {
	return t == TrackWisdom || t == TrackReflection
}

// GraceWindowDays is the rolling window during which a used grace stays
// spent. One missed day forgiven per track per window.
const GraceWindowDays = 14

// Streak is one track's consecutive-day counter for one user.
// Invariant: Longest >= Current. Current resets to 1 on a non-consecutive
// maintenance event, never silently to 0 while the streak is live.
type Streak struct {
	UserID       string      `json:"user_id"`
	Track        StreakTrack `json:"track"`
	Current      int         `json:"current"`
	Longest      int         `json:"longest"`
	LastDay      string      `json:"last_day"` // day key of last maintenance, "" if never
	GraceUsed    bool        `json:"grace_used"`
	GraceUsedAt  time.Time   `json:"grace_used_at,omitzero"`
	GraceResetAt time.Time   `json:"grace_reset_at,omitzero"`
}

// GraceAvailable reports whether the grace period can be spent at now:
// never used, or used but the reset time has passed.
func (s Streak) GraceAvailable(now time.Time) bool {
	if !s.GraceUsed {
		return true
	}
	return !s.GraceResetAt.IsZero() && !now.Before(s.GraceResetAt)
}

// ResetGraceIfElapsed clears a spent grace once its reset time has passed.
// Lazy-reset policy: called from every maintenance path, no background job.
// Returns true if state changed.
func (s *Streak) ResetGraceIfElapsed(now time.Time) bool {
	if s.GraceUsed && !s.GraceResetAt.IsZero() && !now.Before(s.GraceResetAt) {
		s.GraceUsed = false
		s.GraceUsedAt = time.Time{}
		s.GraceResetAt = time.Time{}
		return true
	}
	return false
}

// CheckInvariants surfaces invariant violations as loud errors rather than
// silently auto-correcting. A violation here is a logic defect upstream.
func (s Streak) CheckInvariants() error {
	if s.Current < 0 || s.Longest < 0 || s.Current > s.Longest {
		return ErrStreakInvariant
	}
	return nil
}

// MaintainResult is the outcome of a maintenance call.
// "Already maintained today" is an expected non-event, not an error.
type MaintainResult struct {
	Track        StreakTrack `json:"track"`
	Advanced     bool        `json:"advanced"`
	AlreadyToday bool        `json:"already_today"`
	Current      int         `json:"current"`
	Longest      int         `json:"longest"`
}
