package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prody-app/prody/internal/domain"
)

// ─── Summary ─────────────────────────────────────────────────────────────────

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	stats, err := s.achievements.Snapshot(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	streaks, err := s.streaks.Streaks(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	skills, err := s.skills.Get(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unlocked, err := s.achievements.ListUnlocked(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	today, err := s.seeds.Today(userID, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":   stats,
		"streaks": streaks,
		"skills":  skills,
		"seed":    today,
		"achievements": map[string]interface{}{
			"unlocked": len(unlocked),
			"total":    s.achievements.TotalCount(),
		},
	})
}

// ─── Streaks ─────────────────────────────────────────────────────────────────

func (s *Server) handleStreaks(w http.ResponseWriter, r *http.Request) {
	streaks, err := s.streaks.Streaks(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"streaks": streaks,
	})
}

func trackFrom(r *http.Request) (domain.StreakTrack, error) {
	track := domain.StreakTrack(chi.URLParam(r, "track"))
	if !track.Valid() {
		return "", domain.ErrUnknownTrack
	}
	return track, nil
}

func (s *Server) handleStreakMaintain(w http.ResponseWriter, r *http.Request) {
	track, err := trackFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.streaks.Maintain(userFrom(r), track, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStreakGrace(w http.ResponseWriter, r *http.Request) {
	track, err := trackFrom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := userFrom(r)
	applied, err := s.streaks.ApplyGrace(userID, track, s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	streaks, err := s.streaks.Streaks(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"applied": applied,
		"streaks": streaks,
	})
}

// ─── Seeds ───────────────────────────────────────────────────────────────────

func (s *Server) handleSeedToday(w http.ResponseWriter, r *http.Request) {
	sd, err := s.seeds.Today(userFrom(r), s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sd)
}

// handleSeedEngage marks today's seed as seen. Viewing the seed is the
// quick-track action, so it also maintains the wisdom streak.
func (s *Server) handleSeedEngage(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)
	now := s.clock.Now()

	sd, err := s.seeds.RecordEngagement(userID, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	res, err := s.streaks.Maintain(userID, domain.TrackWisdom, now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seed":   sd,
		"streak": res,
	})
}

type bloomRequest struct {
	Text    string `json:"text"`
	Context string `json:"context,omitempty"`
	Ref     string `json:"ref,omitempty"`
}

func (s *Server) handleSeedBloom(w http.ResponseWriter, r *http.Request) {
	var req bloomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Context == "" {
		req.Context = "manual"
	}

	res, err := s.seeds.AttemptBloom(userFrom(r), s.clock.Now(), req.Text, req.Context, req.Ref)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Journal ─────────────────────────────────────────────────────────────────

type journalAddRequest struct {
	Content string `json:"content"`
	Mood    string `json:"mood,omitempty"`
}

func (s *Server) handleJournalAdd(w http.ResponseWriter, r *http.Request) {
	var req journalAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := userFrom(r)
	now := s.clock.Now()

	entry, outcome, err := s.journal.Add(userID, req.Content, req.Mood, now)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// A new entry can tip several achievements at once.
	unlocked := s.checkAchievements(userID, now)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"entry":        entry,
		"outcome":      outcome,
		"achievements": unlocked,
	})
}

func (s *Server) handleJournalList(w http.ResponseWriter, r *http.Request) {
	entries, err := s.journal.List(userFrom(r), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) handleJournalGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.journal.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrEntryNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// ─── Skills & Achievements ───────────────────────────────────────────────────

func (s *Server) handleSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.skills.Get(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := userFrom(r)

	unlocked, err := s.achievements.ListUnlocked(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unlockedSet := make(map[string]domain.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		unlockedSet[u.ID] = u
	}

	type achievementView struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Icon         string `json:"icon"`
		Unlocked     bool   `json:"unlocked"`
		UnlockedAt   int64  `json:"unlocked_at,omitempty"`
		RewardXP     int64  `json:"reward_xp"`
		RewardTokens int64  `json:"reward_tokens"`
	}

	defs := s.achievements.Definitions()
	out := make([]achievementView, len(defs))
	for i, def := range defs {
		v := achievementView{
			ID:           def.ID,
			Name:         def.Name,
			Icon:         def.Icon,
			RewardXP:     def.RewardXP,
			RewardTokens: def.RewardTokens,
		}
		if u, ok := unlockedSet[def.ID]; ok {
			v.Unlocked = true
			v.UnlockedAt = u.UnlockedAt.Unix()
		}
		out[i] = v
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": out,
		"unlocked":     len(unlocked),
		"total":        len(defs),
	})
}

// checkAchievements runs the unlock pass and swallows errors; an unlock
// failure must not fail the user action that triggered it.
func (s *Server) checkAchievements(userID string, now time.Time) []domain.AchievementDef {
	stats, err := s.achievements.Snapshot(userID)
	if err != nil {
		return nil
	}
	unlocked, err := s.achievements.CheckAndUnlock(userID, stats, now)
	if err != nil {
		return nil
	}
	return unlocked
}

// ─── Future Messages ─────────────────────────────────────────────────────────

type messageWriteRequest struct {
	Content   string `json:"content"`
	DeliverAt int64  `json:"deliver_at"` // unix seconds
}

func (s *Server) handleMessageWrite(w http.ResponseWriter, r *http.Request) {
	var req messageWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := userFrom(r)
	now := s.clock.Now()
	msg, err := s.messages.Write(userID, req.Content, time.Unix(req.DeliverAt, 0), now)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) || errors.Is(err, domain.ErrDeliveryInPast) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	unlocked := s.checkAchievements(userID, now)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      msg,
		"achievements": unlocked,
	})
}

func (s *Server) handleMessageDeliver(w http.ResponseWriter, r *http.Request) {
	delivered, err := s.messages.Deliver(userFrom(r), s.clock.Now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delivered": delivered,
	})
}

func (s *Server) handleMessageList(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.messages.List(userFrom(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
	})
}
