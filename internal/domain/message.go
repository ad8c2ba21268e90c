package domain

import "time"

// FutureMessage is a note written to one's future self, held back until its
// delivery date.
type FutureMessage struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	DeliverAt   time.Time `json:"deliver_at"`
	Delivered   bool      `json:"delivered"`
	DeliveredAt time.Time `json:"delivered_at,omitzero"`
}

// Due reports whether the message should be delivered at now.
func (m FutureMessage) Due(now time.Time) bool {
	return !m.Delivered && !now.Before(m.DeliverAt)
}
