// Package metrics provides Prometheus metrics for the Prody engine:
// counters for streaks, blooms, journaling, and reward payouts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakMaintained counts streak-advancing maintenance calls by track.
var StreakMaintained = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "streak_maintained_total",
	Help:      "Streak-advancing maintenance events.",
}, []string{"track"})

// GraceApplied counts grace uses by track.
var GraceApplied = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "streak_grace_applied_total",
	Help:      "Grace periods spent to save a streak.",
}, []string{"track"})

// ─── Seeds ──────────────────────────────────────────────────────────────────

// SeedsBloomed counts seeds that reached BLOOMED.
var SeedsBloomed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "seeds_bloomed_total",
	Help:      "Daily seeds bloomed.",
})

// ─── Journal ────────────────────────────────────────────────────────────────

// JournalEntries counts saved journal entries.
var JournalEntries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "journal_entries_total",
	Help:      "Journal entries saved.",
})

// ─── Rewards ────────────────────────────────────────────────────────────────

// XPGranted counts XP paid out by skill pool (post-clip).
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "xp_granted_total",
	Help:      "XP granted after daily-cap clipping.",
}, []string{"skill"})

// TokensEarned counts tokens paid out.
var TokensEarned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "prody",
	Name:      "tokens_earned_total",
	Help:      "Tokens earned.",
})
