// Package streak maintains the two per-user streak counters.
// A "day" is a local calendar day, not a rolling 24-hour window: maintaining
// at 23:59 and again at 00:01 counts as two days. Each track carries one
// grace use per rolling 14-day window.
package streak

import (
	"fmt"
	"time"

	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/metrics"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Service manages streak maintenance and grace.
type Service struct {
	db *sqlite.DB
}

// NewService creates a streak service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Streaks returns both tracks for a user, zero-valued where never
// maintained.
func (s *Service) Streaks(userID string) ([]domain.Streak, error) {
	persisted, err := s.db.Store().ListStreaks(userID)
	if err != nil {
		return nil, fmt.Errorf("list streaks: %w", err)
	}

	byTrack := make(map[domain.StreakTrack]domain.Streak, len(persisted))
	for _, st := range persisted {
		byTrack[st.Track] = st
	}

	out := make([]domain.Streak, 0, 2)
	for _, track := range domain.Tracks() {
		st, ok := byTrack[track]
		if !ok {
			st = domain.Streak{UserID: userID, Track: track}
		}
		out = append(out, st)
	}
	return out, nil
}

// Maintain records engagement on a track for now's calendar day.
// Same day: no-op. Consecutive day: extend. Gap without grace: restart at 1,
// never an error. Longest never decreases. A spent grace whose reset time
// has passed is cleared on the way through (lazy reset, no background job).
func (s *Service) Maintain(userID string, track domain.StreakTrack, now time.Time) (domain.MaintainResult, error) {
	if !track.Valid() {
		return domain.MaintainResult{}, fmt.Errorf("maintain %q: %w", track, domain.ErrUnknownTrack)
	}

	var res domain.MaintainResult
	err := s.db.Tx(func(st *sqlite.Store) error {
		streak, err := st.GetStreak(userID, track)
		if err != nil {
			return err
		}
		if err := streak.CheckInvariants(); err != nil {
			return fmt.Errorf("track %s: %w", track, err)
		}

		graceCleared := streak.ResetGraceIfElapsed(now)
		today := domain.DayKey(now)

		if streak.LastDay == today {
			res = domain.MaintainResult{
				Track:        track,
				AlreadyToday: true,
				Current:      streak.Current,
				Longest:      streak.Longest,
			}
			if graceCleared {
				return st.UpsertStreak(streak)
			}
			return nil
		}

		if streak.LastDay == domain.YesterdayKey(now) {
			streak.Current++
		} else {
			streak.Current = 1 // restart, never 0
		}
		if streak.Current > streak.Longest {
			streak.Longest = streak.Current
		}
		streak.LastDay = today

		res = domain.MaintainResult{
			Track:    track,
			Advanced: true,
			Current:  streak.Current,
			Longest:  streak.Longest,
		}
		return st.UpsertStreak(streak)
	})
	if err != nil {
		return domain.MaintainResult{}, err
	}

	if res.Advanced {
		metrics.StreakMaintained.WithLabelValues(string(track)).Inc()
	}
	return res, nil
}

// ApplyGrace spends a track's grace to cover a missed day. It only applies
// when grace is available AND the streak actually needs saving — the last
// maintained day is neither today nor yesterday. Calling it when unnecessary
// returns false without spending the resource; "not available" and "not
// needed" are expected control flow, not errors.
//
// On success the last maintained day is extended to today, preserving
// continuity without incrementing the counter beyond what real engagement
// would give.
func (s *Service) ApplyGrace(userID string, track domain.StreakTrack, now time.Time) (bool, error) {
	if !track.Valid() {
		return false, fmt.Errorf("grace %q: %w", track, domain.ErrUnknownTrack)
	}

	applied := false
	err := s.db.Tx(func(st *sqlite.Store) error {
		streak, err := st.GetStreak(userID, track)
		if err != nil {
			return err
		}
		if err := streak.CheckInvariants(); err != nil {
			return fmt.Errorf("track %s: %w", track, err)
		}

		graceCleared := streak.ResetGraceIfElapsed(now)

		// No streak to save yet, or streak not at risk.
		needed := streak.LastDay != "" &&
			streak.LastDay != domain.DayKey(now) &&
			streak.LastDay != domain.YesterdayKey(now)
		if !needed || !streak.GraceAvailable(now) {
			if graceCleared {
				return st.UpsertStreak(streak)
			}
			return nil
		}

		streak.GraceUsed = true
		streak.GraceUsedAt = now
		streak.GraceResetAt = now.AddDate(0, 0, domain.GraceWindowDays)
		streak.LastDay = domain.DayKey(now)

		applied = true
		return st.UpsertStreak(streak)
	})
	if err != nil {
		return false, err
	}

	if applied {
		metrics.GraceApplied.WithLabelValues(string(track)).Inc()
	}
	return applied, nil
}
