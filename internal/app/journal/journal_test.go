package journal_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prody-app/prody/internal/app/journal"
	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/app/seed"
	"github.com/prody-app/prody/internal/app/streak"
	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// testDB creates a temporary SQLite database for testing.
func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testService(t *testing.T) (*journal.Service, *seed.Service, *reward.Skills) {
	t.Helper()
	db := testDB(t)
	ledger := reward.NewLedger(db)
	skills := reward.NewSkills(db, reward.Caps{Wisdom: 500, Reflection: 500})
	seeds := seed.NewService(db, ledger, skills, seed.Rewards{XP: 75, Tokens: 10})
	streaks := streak.NewService(db)
	svc := journal.NewService(db, streaks, seeds, ledger, skills, 50)
	return svc, seeds, skills
}

func TestAdd_MaintainsReflectionStreakAndPaysXP(t *testing.T) {
	svc, _, skills := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	entry, outcome, err := svc.Add("local", "a quiet day of small progress", "", now)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if entry.WordCount != 6 {
		t.Errorf("word count = %d, want 6", entry.WordCount)
	}
	if !outcome.Streak.Advanced || outcome.Streak.Current != 1 {
		t.Errorf("first entry should start the reflection streak, got %+v", outcome.Streak)
	}
	if outcome.XPGranted != 50 {
		t.Errorf("expected 50 reflection XP, got %d", outcome.XPGranted)
	}

	p, _ := skills.Get("local")
	if p.ReflectionXP != 50 {
		t.Errorf("reflection pool = %d, want 50", p.ReflectionXP)
	}
}

func TestAdd_SecondEntrySameDayNoDoublePay(t *testing.T) {
	svc, _, skills := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	if _, _, err := svc.Add("local", "morning pages", "", now); err != nil {
		t.Fatalf("add: %v", err)
	}

	_, outcome, err := svc.Add("local", "evening pages", "", now.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if outcome.Streak.Advanced {
		t.Error("second entry of the day must not advance the streak")
	}
	if outcome.XPGranted != 0 {
		t.Errorf("second entry of the day must not pay XP, got %d", outcome.XPGranted)
	}

	p, _ := skills.Get("local")
	if p.ReflectionXP != 50 {
		t.Errorf("reflection pool = %d, want 50 after duplicate day", p.ReflectionXP)
	}
}

func TestAdd_EntryTextBloomsSeed(t *testing.T) {
	svc, seeds, _ := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	today, err := seeds.Today("local", now)
	if err != nil {
		t.Fatalf("today: %v", err)
	}

	_, outcome, err := svc.Add("local", "I keep coming back to "+today.Content, "", now)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if outcome.Bloom == nil || outcome.Bloom.Status != domain.BloomStatusBloomed {
		t.Fatalf("entry using the seed should bloom it, got %+v", outcome.Bloom)
	}
	if outcome.Bloom.Seed.BloomedIn != "journal" {
		t.Errorf("bloom context = %q, want journal", outcome.Bloom.Seed.BloomedIn)
	}
}

func TestAdd_EmptyContentRejected(t *testing.T) {
	svc, _, _ := testService(t)

	_, _, err := svc.Add("local", "   \n\t ", "", time.Now())
	if !errors.Is(err, domain.ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _, _ := testService(t)

	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, _, err := svc.Add("local", "entry", "", base.AddDate(0, 0, i)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	entries, err := svc.List("local", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if !entries[0].CreatedAt.After(entries[2].CreatedAt) {
		t.Error("entries should be newest first")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.Get("no-such-id")
	if !errors.Is(err, domain.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}
