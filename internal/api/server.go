// Package api provides the HTTP server for Prody.
// It exposes the engagement REST API: streaks, daily seeds, journal,
// skills, achievements and future messages.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/prody-app/prody/internal/app/achievement"
	"github.com/prody-app/prody/internal/app/journal"
	"github.com/prody-app/prody/internal/app/message"
	"github.com/prody-app/prody/internal/app/seed"
	"github.com/prody-app/prody/internal/app/streak"
	"github.com/prody-app/prody/internal/domain"
)

// Server is the Prody HTTP API server.
type Server struct {
	streaks        *streak.Service
	seeds          *seed.Service
	journal        *journal.Service
	messages       *message.Service
	achievements   *achievement.Service
	skills         SkillsReader
	clock          domain.Clock
	version        string
	metricsEnabled bool
}

// SkillsReader is the read side of the skills service needed by handlers.
type SkillsReader interface {
	Get(userID string) (domain.PlayerSkills, error)
}

// NewServer creates a new API server.
func NewServer(
	streaks *streak.Service,
	seeds *seed.Service,
	jrnl *journal.Service,
	messages *message.Service,
	achievements *achievement.Service,
	skills SkillsReader,
	clock domain.Clock,
	version string,
) *Server {
	return &Server{
		streaks:      streaks,
		seeds:        seeds,
		journal:      jrnl,
		messages:     messages,
		achievements: achievements,
		skills:       skills,
		clock:        clock,
		version:      version,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)

		r.Get("/streaks", s.handleStreaks)
		r.Post("/streaks/{track}/maintain", s.handleStreakMaintain)
		r.Post("/streaks/{track}/grace", s.handleStreakGrace)

		r.Get("/seed/today", s.handleSeedToday)
		r.Post("/seed/engage", s.handleSeedEngage)
		r.Post("/seed/bloom", s.handleSeedBloom)

		r.Post("/journal", s.handleJournalAdd)
		r.Get("/journal", s.handleJournalList)
		r.Get("/journal/{id}", s.handleJournalGet)

		r.Get("/skills", s.handleSkills)
		r.Get("/achievements", s.handleAchievements)

		r.Post("/messages", s.handleMessageWrite)
		r.Post("/messages/deliver", s.handleMessageDeliver)
		r.Get("/messages", s.handleMessageList)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// userFrom resolves the acting user. Single-user daemon; the header
// exists so a future sync layer can scope requests.
func userFrom(r *http.Request) string {
	if u := r.Header.Get("X-Prody-User"); u != "" {
		return u
	}
	return domain.LocalUser
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Prody-User")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
