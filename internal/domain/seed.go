package domain

import (
	"strings"
	"time"
)

// ─── Seed Types ─────────────────────────────────────────────────────────────

// SeedType is the kind of content challenge planted for a day.
type SeedType string

const (
	SeedWord    SeedType = "word"
	SeedQuote   SeedType = "quote"
	SeedProverb SeedType = "proverb"
	SeedPhrase  SeedType = "phrase"
)

// SeedState is the day's challenge progress.
// Transitions are monotonic: PLANTED → GROWING → BLOOMED. BLOOMED is
// terminal for the day; the next day gets a fresh record.
type SeedState string

const (
	SeedPlanted SeedState = "PLANTED"
	SeedGrowing SeedState = "GROWING"
	SeedBloomed SeedState = "BLOOMED"
)

// MatchData carries the per-type match hints: surface variations for words,
// a short distinctive fragment for quotes, a keyword set for proverbs.
type MatchData struct {
	Variations []string `json:"variations,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	KeyPhrase  string   `json:"key_phrase,omitempty"`
}

// Seed is one user's content challenge for one calendar day.
// Exactly one Seed exists per (user, day).
type Seed struct {
	ID            int64     `json:"id"`
	UserID        string    `json:"user_id"`
	Day           string    `json:"day"`
	Type          SeedType  `json:"type"`
	Content       string    `json:"content"`
	Match         MatchData `json:"match"`
	State         SeedState `json:"state"`
	BloomedAt     time.Time `json:"bloomed_at,omitzero"`
	BloomedIn     string    `json:"bloomed_in,omitempty"`  // context: "journal", "message", ...
	BloomedRef    string    `json:"bloomed_ref,omitempty"` // id of the triggering record
	RewardClaimed bool      `json:"reward_claimed"`
}

// Matches reports whether free-text input satisfies the seed's bloom
// condition. Case-insensitive substring matching on purpose: the input is
// free-form prose, and requiring exact reproduction would almost never fire.
// Accidental matches are acceptable; missed genuine usage is the failure
// mode to avoid.
func (s Seed) Matches(text string) bool {
	input := strings.ToLower(text)

	switch s.Type {
	case SeedWord:
		if containsFold(input, s.Content) {
			return true
		}
		for _, v := range s.Match.Variations {
			if containsFold(input, v) {
				return true
			}
		}
		return false

	case SeedQuote:
		// Match on the short distinctive fragment, not the whole quote.
		return containsFold(input, s.Match.KeyPhrase)

	case SeedProverb:
		if len(s.Match.Keywords) > 0 {
			for _, k := range s.Match.Keywords {
				if containsFold(input, k) {
					return true
				}
			}
			return false
		}
		return containsContentWord(input, s.Content, 4)

	case SeedPhrase:
		return containsFold(input, s.Content)

	default:
		return containsContentWord(input, s.Content, 3)
	}
}

// containsFold is a lowercase substring check; empty needles never match.
func containsFold(input, needle string) bool {
	return needle != "" && strings.Contains(input, strings.ToLower(needle))
}

// containsContentWord reports whether any word of content with length >=
// minLen appears as a substring of the (already lowercased) input.
func containsContentWord(input, content string, minLen int) bool {
	for _, w := range strings.Fields(strings.ToLower(content)) {
		w = strings.Trim(w, `.,;:!?"'()-`)
		if len(w) >= minLen && strings.Contains(input, w) {
			return true
		}
	}
	return false
}

// ─── Bloom Results ──────────────────────────────────────────────────────────

// BloomStatus is the outcome class of a bloom attempt.
type BloomStatus string

const (
	BloomStatusBloomed BloomStatus = "bloomed"
	BloomStatusAlready BloomStatus = "already_bloomed"
	BloomStatusNoMatch BloomStatus = "no_match"
)

// BloomResult is the outcome of an AttemptBloom call. "Already bloomed" and
// "no match" are expected non-events.
type BloomResult struct {
	Status        BloomStatus `json:"status"`
	Seed          Seed        `json:"seed"`
	XPGranted     int64       `json:"xp_granted"`
	TokensGranted int64       `json:"tokens_granted"`
}
