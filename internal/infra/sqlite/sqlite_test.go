package sqlite_test

import (
	"testing"
	"time"

	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

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

func TestOpen_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	// Reopening the same directory re-runs migrations against existing tables.
	db, err = sqlite.Open(dir)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestStreak_UpsertRoundTrip(t *testing.T) {
	db := testDB(t)
	st := db.Store()

	streak := domain.Streak{
		UserID:       "local",
		Track:        domain.TrackWisdom,
		Current:      4,
		Longest:      9,
		LastDay:      "2025-07-01",
		GraceUsed:    true,
		GraceUsedAt:  time.Date(2025, 6, 28, 10, 0, 0, 0, time.UTC),
		GraceResetAt: time.Date(2025, 7, 12, 10, 0, 0, 0, time.UTC),
	}
	if err := st.UpsertStreak(streak); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := st.GetStreak("local", domain.TrackWisdom)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Current != 4 || got.Longest != 9 || got.LastDay != "2025-07-01" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.GraceUsed || got.GraceResetAt.Unix() != streak.GraceResetAt.Unix() {
		t.Errorf("grace fields lost: %+v", got)
	}

	// Upsert overwrites in place.
	streak.Current = 5
	if err := st.UpsertStreak(streak); err != nil {
		t.Fatalf("upsert update: %v", err)
	}
	got, _ = st.GetStreak("local", domain.TrackWisdom)
	if got.Current != 5 {
		t.Errorf("expected updated current 5, got %d", got.Current)
	}
}

func TestGetStreak_MissingIsZeroValue(t *testing.T) {
	db := testDB(t)

	got, err := db.Store().GetStreak("local", domain.TrackReflection)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.UserID != "local" || got.Track != domain.TrackReflection {
		t.Errorf("zero value should carry identity, got %+v", got)
	}
	if got.Current != 0 || got.LastDay != "" {
		t.Errorf("expected untouched streak, got %+v", got)
	}
}

func TestSeed_MatchDataRoundTrip(t *testing.T) {
	db := testDB(t)
	st := db.Store()

	seed := domain.Seed{
		UserID:  "local",
		Day:     "2025-07-01",
		Type:    domain.SeedProverb,
		Content: "Still waters run deep.",
		Match:   domain.MatchData{Keywords: []string{"still waters", "run deep"}},
		State:   domain.SeedPlanted,
	}
	id, err := st.InsertSeed(seed)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected assigned row id")
	}

	got, err := st.GetSeed("local", "2025-07-01")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("seed not found")
	}
	if len(got.Match.Keywords) != 2 || got.Match.Keywords[0] != "still waters" {
		t.Errorf("match data lost in round trip: %+v", got.Match)
	}
}

func TestSeed_OnePerUserDay(t *testing.T) {
	db := testDB(t)
	st := db.Store()

	seed := domain.Seed{UserID: "local", Day: "2025-07-01", Type: domain.SeedWord,
		Content: "clarity", State: domain.SeedPlanted}
	if _, err := st.InsertSeed(seed); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// The (user, day) unique constraint rejects a second planting.
	if _, err := st.InsertSeed(seed); err == nil {
		t.Error("second seed for the same user and day should fail")
	}
}

func TestBloomSeed_PersistsContext(t *testing.T) {
	db := testDB(t)
	st := db.Store()

	id, err := st.InsertSeed(domain.Seed{UserID: "local", Day: "2025-07-01",
		Type: domain.SeedWord, Content: "clarity", State: domain.SeedGrowing})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	at := time.Date(2025, 7, 1, 20, 0, 0, 0, time.UTC)
	if err := st.BloomSeed(id, at, "journal", "entry-1"); err != nil {
		t.Fatalf("bloom: %v", err)
	}

	got, _ := st.GetSeed("local", "2025-07-01")
	if got.State != domain.SeedBloomed {
		t.Errorf("state = %s, want BLOOMED", got.State)
	}
	if got.BloomedIn != "journal" || got.BloomedRef != "entry-1" {
		t.Errorf("bloom context lost: %+v", got)
	}
	if got.BloomedAt.Unix() != at.Unix() {
		t.Errorf("bloomed_at = %v, want %v", got.BloomedAt, at)
	}
}

func TestUnlockAchievement_InsertIfAbsent(t *testing.T) {
	db := testDB(t)
	st := db.Store()

	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	isNew, err := st.UnlockAchievement("local", "first_entry", at)
	if err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if !isNew {
		t.Fatal("first unlock should report new")
	}

	isNew, err = st.UnlockAchievement("local", "first_entry", at.Add(time.Hour))
	if err != nil {
		t.Fatalf("re-unlock: %v", err)
	}
	if isNew {
		t.Error("second unlock must report already present")
	}

	count, err := st.UnlockedAchievementCount("local")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one unlock row, got %d", count)
	}
}

func TestTx_RollsBackOnError(t *testing.T) {
	db := testDB(t)

	wantErr := domain.ErrStreakInvariant
	err := db.Tx(func(st *sqlite.Store) error {
		if err := st.UpsertStreak(domain.Streak{
			UserID: "local", Track: domain.TrackWisdom, Current: 1, Longest: 1, LastDay: "2025-07-01",
		}); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	got, _ := db.Store().GetStreak("local", domain.TrackWisdom)
	if got.Current != 0 {
		t.Errorf("failed transaction must roll back, found current=%d", got.Current)
	}
}
