package domain

import "time"

// JournalEntry is one piece of reflective writing. Entries drive the
// reflection streak and are the main surface where seeds bloom.
type JournalEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood,omitempty"`
	WordCount int       `json:"word_count"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalOutcome reports everything one saved entry set in motion.
type JournalOutcome struct {
	Streak    MaintainResult `json:"streak"`
	Bloom     *BloomResult   `json:"bloom,omitempty"`
	XPGranted int64          `json:"xp_granted"`
}
