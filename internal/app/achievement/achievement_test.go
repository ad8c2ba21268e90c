package achievement_test

import (
	"testing"
	"time"

	"github.com/prody-app/prody/internal/app/achievement"
	"github.com/prody-app/prody/internal/app/reward"
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

func testService(t *testing.T) (*achievement.Service, *reward.Skills) {
	t.Helper()
	db := testDB(t)
	ledger := reward.NewLedger(db)
	skills := reward.NewSkills(db, reward.Caps{})
	return achievement.NewService(db, ledger, skills), skills
}

func TestCheckAndUnlock_FirstEntry(t *testing.T) {
	svc, skills := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	stats := domain.UserStats{JournalEntries: 1}

	unlocked, err := svc.CheckAndUnlock("local", stats, now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	found := false
	for _, def := range unlocked {
		if def.ID == "first_entry" {
			found = true
		}
	}
	if !found {
		t.Fatal("first_entry should unlock at 1 journal entry")
	}

	// Reward landed in the reflection pool.
	p, _ := skills.Get("local")
	if p.ReflectionXP != 50 || p.Tokens != 10 {
		t.Errorf("expected 50 XP / 10 tokens, got %d / %d", p.ReflectionXP, p.Tokens)
	}
}

func TestCheckAndUnlock_Idempotent(t *testing.T) {
	svc, skills := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	stats := domain.UserStats{JournalEntries: 1}

	if _, err := svc.CheckAndUnlock("local", stats, now); err != nil {
		t.Fatalf("check: %v", err)
	}
	again, err := svc.CheckAndUnlock("local", stats, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("recheck: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("already-unlocked achievements must not unlock again, got %d", len(again))
	}

	p, _ := skills.Get("local")
	if p.ReflectionXP != 50 || p.Tokens != 10 {
		t.Errorf("rechecks must not re-pay, got %d XP / %d tokens", p.ReflectionXP, p.Tokens)
	}
}

func TestCheckAndUnlock_ThresholdsNotMet(t *testing.T) {
	svc, _ := testService(t)

	unlocked, err := svc.CheckAndUnlock("local", domain.UserStats{}, time.Now())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(unlocked) != 0 {
		t.Errorf("zero stats should unlock nothing, got %v", unlocked)
	}
}

func TestCheckAndUnlock_MultipleAtOnce(t *testing.T) {
	svc, _ := testService(t)

	stats := domain.UserStats{
		JournalEntries: 10,
		SeedsBloomed:   1,
	}
	unlocked, err := svc.CheckAndUnlock("local", stats, time.Now())
	if err != nil {
		t.Fatalf("check: %v", err)
	}

	ids := make(map[string]bool, len(unlocked))
	for _, def := range unlocked {
		ids[def.ID] = true
	}
	for _, want := range []string{"first_entry", "entries_10", "first_bloom"} {
		if !ids[want] {
			t.Errorf("expected %s to unlock, got %v", want, ids)
		}
	}
}

func TestSnapshot_Empty(t *testing.T) {
	svc, _ := testService(t)

	stats, err := svc.Snapshot("local")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if stats != (domain.UserStats{}) {
		t.Errorf("fresh user should have zero stats, got %+v", stats)
	}
}

func TestListUnlocked(t *testing.T) {
	svc, _ := testService(t)

	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	if _, err := svc.CheckAndUnlock("local", domain.UserStats{JournalEntries: 1}, now); err != nil {
		t.Fatalf("check: %v", err)
	}

	unlocked, err := svc.ListUnlocked("local")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(unlocked) != 1 || unlocked[0].ID != "first_entry" {
		t.Errorf("expected [first_entry], got %+v", unlocked)
	}
}
