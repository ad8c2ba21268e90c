package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Expected non-events
// (already maintained, grace not needed, no match, already bloomed) are
// result values, not errors; only genuine failures live here.

var (
	// Invariant violations — logic defects, surfaced loudly.
	ErrStreakInvariant = errors.New("streak invariant violated: current exceeds longest")

	// Input validation
	ErrUnknownTrack   = errors.New("unknown streak track")
	ErrUnknownSkill   = errors.New("unknown skill pool")
	ErrEmptyContent   = errors.New("content must not be empty")
	ErrDeliveryInPast = errors.New("delivery date must be in the future")

	// Lookups
	ErrEntryNotFound   = errors.New("journal entry not found")
	ErrMessageNotFound = errors.New("future message not found")
)
