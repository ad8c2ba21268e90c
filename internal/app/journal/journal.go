// Package journal stores reflective writing and fans each saved entry out
// to the engagement engine: the reflection streak is maintained, the day's
// seed gets a bloom attempt against the entry text, and reflection XP is
// paid once per day through the reward ledger.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/app/seed"
	"github.com/prody-app/prody/internal/app/streak"
	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/metrics"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Service manages journal entries.
type Service struct {
	db      *sqlite.DB
	streaks *streak.Service
	seeds   *seed.Service
	ledger  *reward.Ledger
	skills  *reward.Skills
	entryXP int64
}

// NewService creates a journal service. entryXP is the reflection XP paid
// for the first entry of a day.
func NewService(db *sqlite.DB, streaks *streak.Service, seeds *seed.Service,
	ledger *reward.Ledger, skills *reward.Skills, entryXP int64) *Service {
	return &Service{
		db:      db,
		streaks: streaks,
		seeds:   seeds,
		ledger:  ledger,
		skills:  skills,
		entryXP: entryXP,
	}
}

// Add saves an entry and reports everything it set in motion. A second
// entry on the same day still blooms a pending seed but neither advances
// the streak nor double-pays XP.
func (j *Service) Add(userID, content, mood string, now time.Time) (domain.JournalEntry, domain.JournalOutcome, error) {
	if strings.TrimSpace(content) == "" {
		return domain.JournalEntry{}, domain.JournalOutcome{}, domain.ErrEmptyContent
	}

	entry := domain.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		Mood:      mood,
		WordCount: len(strings.Fields(content)),
		CreatedAt: now,
	}
	if err := j.db.Store().InsertJournalEntry(entry); err != nil {
		return domain.JournalEntry{}, domain.JournalOutcome{}, err
	}
	metrics.JournalEntries.Inc()

	var outcome domain.JournalOutcome

	maintained, err := j.streaks.Maintain(userID, domain.TrackReflection, now)
	if err != nil {
		return entry, outcome, fmt.Errorf("maintain reflection streak: %w", err)
	}
	outcome.Streak = maintained

	bloom, err := j.seeds.AttemptBloom(userID, now, content, "journal", entry.ID)
	if err != nil {
		return entry, outcome, fmt.Errorf("attempt bloom: %w", err)
	}
	outcome.Bloom = &bloom

	// First entry of the day pays reflection XP; the ledger absorbs
	// duplicate triggers and retries.
	if j.entryXP > 0 {
		key := domain.RewardKey(userID, domain.EventJournalXP, domain.DayKey(now))
		fresh, err := j.ledger.TryConsume(key, now)
		if err != nil {
			return entry, outcome, err
		}
		if fresh {
			granted, err := j.skills.GrantXP(userID, domain.SkillReflection, j.entryXP, now)
			if err != nil {
				return entry, outcome, fmt.Errorf("journal xp: %w", err)
			}
			outcome.XPGranted = granted
		}
	}

	return entry, outcome, nil
}

// Get retrieves one entry.
func (j *Service) Get(id string) (*domain.JournalEntry, error) {
	return j.db.Store().GetJournalEntry(id)
}

// List returns a user's entries, newest first.
func (j *Service) List(userID string, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return j.db.Store().ListJournalEntries(userID, limit)
}
