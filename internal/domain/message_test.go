package domain_test

import (
	"testing"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

func TestFutureMessage_Due(t *testing.T) {
	deliverAt := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	msg := domain.FutureMessage{DeliverAt: deliverAt}

	if msg.Due(deliverAt.Add(-time.Hour)) {
		t.Error("message before its delivery time is not due")
	}
	if !msg.Due(deliverAt) {
		t.Error("message is due exactly at its delivery time")
	}
	if !msg.Due(deliverAt.Add(time.Hour)) {
		t.Error("message past its delivery time is due")
	}

	msg.Delivered = true
	if msg.Due(deliverAt.Add(time.Hour)) {
		t.Error("delivered message is never due again")
	}
}
