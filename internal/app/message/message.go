// Package message implements future messages: notes written to one's
// future self, held until their delivery date. Delivery pays a small token
// reward once per message, gated by the reward ledger so replays after a
// crash or sync retry cannot double-pay.
package message

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prody-app/prody/internal/app/reward"
	"github.com/prody-app/prody/internal/domain"
	"github.com/prody-app/prody/internal/infra/sqlite"
)

// Service manages future messages.
type Service struct {
	db            *sqlite.DB
	ledger        *reward.Ledger
	skills        *reward.Skills
	deliverTokens int64
}

// NewService creates a message service. deliverTokens is the token reward
// paid when a message is delivered.
func NewService(db *sqlite.DB, ledger *reward.Ledger, skills *reward.Skills, deliverTokens int64) *Service {
	return &Service{db: db, ledger: ledger, skills: skills, deliverTokens: deliverTokens}
}

// Write stores a message for future delivery.
func (m *Service) Write(userID, content string, deliverAt, now time.Time) (domain.FutureMessage, error) {
	if strings.TrimSpace(content) == "" {
		return domain.FutureMessage{}, domain.ErrEmptyContent
	}
	if !deliverAt.After(now) {
		return domain.FutureMessage{}, domain.ErrDeliveryInPast
	}

	msg := domain.FutureMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		DeliverAt: deliverAt,
	}
	if err := m.db.Store().InsertFutureMessage(msg); err != nil {
		return domain.FutureMessage{}, err
	}
	return msg, nil
}

// Deliver marks all due messages delivered and pays the token reward once
// per message. Safe to call repeatedly; already-delivered messages are
// skipped and the ledger absorbs replays.
func (m *Service) Deliver(userID string, now time.Time) ([]domain.FutureMessage, error) {
	due, err := m.db.Store().ListDueMessages(userID, now)
	if err != nil {
		return nil, fmt.Errorf("list due messages: %w", err)
	}

	var delivered []domain.FutureMessage
	for _, msg := range due {
		if err := m.db.Store().MarkMessageDelivered(msg.ID, now); err != nil {
			if err == domain.ErrMessageNotFound {
				continue // raced with another delivery pass
			}
			return delivered, err
		}
		msg.Delivered = true
		msg.DeliveredAt = now

		if m.deliverTokens > 0 {
			key := domain.RewardKey(userID, domain.EventFutureMessage, msg.ID)
			fresh, err := m.ledger.TryConsume(key, now)
			if err != nil {
				return delivered, err
			}
			if fresh {
				if err := m.skills.AddTokens(userID, m.deliverTokens); err != nil {
					return delivered, fmt.Errorf("delivery tokens: %w", err)
				}
			}
		}

		delivered = append(delivered, msg)
	}
	return delivered, nil
}

// List returns all of a user's messages, newest first.
func (m *Service) List(userID string) ([]domain.FutureMessage, error) {
	return m.db.Store().ListMessages(userID)
}
