// Package domain holds the pure types and rules of the Prody engagement
// engine: streaks, seeds, rewards, skills. No infrastructure imports.
package domain

import "time"

// Clock supplies the current time. Services take timestamps as explicit
// parameters; the Clock exists so the API/CLI edge can be swapped for a
// fixed clock in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock (and its time zone) at call time.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// LocalUser is the default user ID on a single-profile device.
const LocalUser = "local"

// ─── Day Boundary ───────────────────────────────────────────────────────────
// A "day" is the local calendar day starting at 00:00 in t's location, not a
// rolling 24-hour window. Every today/yesterday comparison in the engine goes
// through these helpers; divergent day arithmetic between components is the
// classic source of off-by-one streak bugs.

// StartOfDay returns midnight of t's calendar day, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey returns the calendar-day key for t, e.g. "2025-07-01".
func DayKey(t time.Time) string {
	return StartOfDay(t).Format("2006-01-02")
}

// YesterdayKey returns the day key for the calendar day before t's.
func YesterdayKey(t time.Time) string {
	return DayKey(StartOfDay(t).AddDate(0, 0, -1))
}

// SameDay reports whether a and b fall on the same calendar day
// (evaluated in each time's own location).
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}
