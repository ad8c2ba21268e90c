package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prody-app/prody/internal/daemon"
)

// testHandler wires a full daemon against a throwaway data dir and returns
// its HTTP handler.
func testHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := daemon.DefaultConfig()
	cfg.Data.Dir = t.TempDir()
	d, err := daemon.NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	t.Cleanup(d.Close)
	return d.Server.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

func TestHealth(t *testing.T) {
	h := testHandler(t)
	w, out := doJSON(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if out["status"] != "ok" {
		t.Errorf("body = %v", out)
	}
}

func TestStreakMaintainAndShow(t *testing.T) {
	h := testHandler(t)

	w, out := doJSON(t, h, http.MethodPost, "/api/streaks/wisdom/maintain", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("maintain status = %d body = %v", w.Code, out)
	}
	if out["current"] != float64(1) || out["advanced"] != true {
		t.Errorf("expected fresh streak of 1, got %v", out)
	}

	// Same-day repeat is a no-op.
	_, out = doJSON(t, h, http.MethodPost, "/api/streaks/wisdom/maintain", nil)
	if out["already_today"] != true {
		t.Errorf("expected already_today, got %v", out)
	}

	w, out = doJSON(t, h, http.MethodGet, "/api/streaks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("streaks status = %d", w.Code)
	}
	streaks, ok := out["streaks"].([]any)
	if !ok || len(streaks) != 2 {
		t.Fatalf("expected both tracks, got %v", out)
	}
}

func TestStreakMaintain_UnknownTrack(t *testing.T) {
	h := testHandler(t)
	w, _ := doJSON(t, h, http.MethodPost, "/api/streaks/focus/maintain", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown track should 400, got %d", w.Code)
	}
}

func TestSeedTodayAndEngage(t *testing.T) {
	h := testHandler(t)

	w, out := doJSON(t, h, http.MethodGet, "/api/seed/today", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("today status = %d", w.Code)
	}
	if out["state"] != "PLANTED" {
		t.Errorf("fresh seed should be PLANTED, got %v", out["state"])
	}

	// Engaging moves the seed to GROWING and maintains the wisdom streak.
	w, out = doJSON(t, h, http.MethodPost, "/api/seed/engage", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("engage status = %d", w.Code)
	}
	seed := out["seed"].(map[string]any)
	if seed["state"] != "GROWING" {
		t.Errorf("expected GROWING, got %v", seed["state"])
	}
	streak := out["streak"].(map[string]any)
	if streak["current"] != float64(1) {
		t.Errorf("expected wisdom streak 1, got %v", streak)
	}
}

func TestSeedBloomFlow(t *testing.T) {
	h := testHandler(t)

	_, out := doJSON(t, h, http.MethodGet, "/api/seed/today", nil)
	content := out["content"].(string)

	w, out := doJSON(t, h, http.MethodPost, "/api/seed/bloom",
		map[string]string{"text": "today I thought about " + content})
	if w.Code != http.StatusOK {
		t.Fatalf("bloom status = %d body = %v", w.Code, out)
	}
	if out["status"] != "bloomed" {
		t.Fatalf("expected bloomed, got %v", out)
	}

	// Retrying the same day reports already_bloomed and pays nothing.
	_, out = doJSON(t, h, http.MethodPost, "/api/seed/bloom",
		map[string]string{"text": content})
	if out["status"] != "already_bloomed" {
		t.Errorf("expected already_bloomed, got %v", out)
	}
	if out["xp_granted"] != float64(0) {
		t.Errorf("retry must not pay, got %v", out["xp_granted"])
	}
}

func TestJournalAddAndList(t *testing.T) {
	h := testHandler(t)

	w, out := doJSON(t, h, http.MethodPost, "/api/journal",
		map[string]string{"content": "wrote a little about the week", "mood": "calm"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d body = %v", w.Code, out)
	}
	outcome := out["outcome"].(map[string]any)
	streak := outcome["streak"].(map[string]any)
	if streak["track"] != "reflection" || streak["current"] != float64(1) {
		t.Errorf("journal should maintain the reflection streak, got %v", streak)
	}

	w, out = doJSON(t, h, http.MethodGet, "/api/journal", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	entries := out["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestJournalAdd_EmptyRejected(t *testing.T) {
	h := testHandler(t)
	w, _ := doJSON(t, h, http.MethodPost, "/api/journal", map[string]string{"content": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty content should 400, got %d", w.Code)
	}
}

func TestSkillsAndSummary(t *testing.T) {
	h := testHandler(t)

	// Journaling pays reflection XP, which the skills view must show.
	doJSON(t, h, http.MethodPost, "/api/journal", map[string]string{"content": "skills check"})

	w, out := doJSON(t, h, http.MethodGet, "/api/skills", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("skills status = %d", w.Code)
	}
	if out["reflection_xp"] == float64(0) {
		t.Errorf("expected journal XP in the reflection pool, got %v", out)
	}

	w, out = doJSON(t, h, http.MethodGet, "/api/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d", w.Code)
	}
	for _, key := range []string{"stats", "streaks", "skills", "seed", "achievements"} {
		if _, ok := out[key]; !ok {
			t.Errorf("summary missing %q: %v", key, out)
		}
	}
}

func TestMessagesFlow(t *testing.T) {
	h := testHandler(t)

	w, out := doJSON(t, h, http.MethodPost, "/api/messages", map[string]any{
		"content":    "hello from the past",
		"deliver_at": time.Now().Add(time.Second).Unix(),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("write status = %d body = %v", w.Code, out)
	}

	// Past delivery dates are rejected.
	w, _ = doJSON(t, h, http.MethodPost, "/api/messages", map[string]any{
		"content":    "too late",
		"deliver_at": time.Now().Add(-time.Hour).Unix(),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("past delivery should 400, got %d", w.Code)
	}

	w, out = doJSON(t, h, http.MethodGet, "/api/messages", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if msgs := out["messages"].([]any); len(msgs) != 1 {
		t.Errorf("expected 1 message, got %d", len(msgs))
	}
}

func TestAchievementsView(t *testing.T) {
	h := testHandler(t)

	// First journal entry unlocks first_entry.
	doJSON(t, h, http.MethodPost, "/api/journal", map[string]string{"content": "first words"})

	w, out := doJSON(t, h, http.MethodGet, "/api/achievements", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("achievements status = %d", w.Code)
	}
	if out["unlocked"] == float64(0) {
		t.Errorf("expected at least one unlocked achievement, got %v", out)
	}
	if out["total"] == float64(0) {
		t.Error("catalog should not be empty")
	}
}
