package domain_test

import (
	"testing"
	"time"

	"github.com/prody-app/prody/internal/domain"
)

func TestDayKey_LocalMidnightBoundary(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)

	lateNight := time.Date(2025, 7, 1, 23, 59, 0, 0, loc)
	justAfter := time.Date(2025, 7, 2, 0, 1, 0, 0, loc)

	if domain.DayKey(lateNight) == domain.DayKey(justAfter) {
		t.Error("23:59 and 00:01 should be different calendar days")
	}
	if got := domain.DayKey(lateNight); got != "2025-07-01" {
		t.Errorf("expected 2025-07-01, got %s", got)
	}
	if got := domain.DayKey(justAfter); got != "2025-07-02" {
		t.Errorf("expected 2025-07-02, got %s", got)
	}
}

func TestYesterdayKey_AcrossMonthBoundary(t *testing.T) {
	d := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	if got := domain.YesterdayKey(d); got != "2025-07-31" {
		t.Errorf("expected 2025-07-31, got %s", got)
	}
}

func TestStartOfDay(t *testing.T) {
	d := time.Date(2025, 7, 1, 18, 30, 45, 123, time.UTC)
	start := domain.StartOfDay(d)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Errorf("expected midnight, got %v", start)
	}
	if !domain.SameDay(d, start) {
		t.Error("midnight should be the same day as the original time")
	}
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2025, 7, 1, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 7, 1, 22, 0, 0, 0, time.UTC)
	nextDay := time.Date(2025, 7, 2, 6, 0, 0, 0, time.UTC)

	if !domain.SameDay(morning, evening) {
		t.Error("same calendar day expected")
	}
	if domain.SameDay(morning, nextDay) {
		t.Error("different calendar days expected")
	}
}
