package model

import (
	"time"
)

type VerifierGrant struct {
	UserID  int64 `json:"user_id" db:"user_id"`
	AddedBy int64 `json:"added_by" db:"added_by"`
	AddedAt int64 `json:"added_at" db:"added_at"`
}

type PendingActionKind string

const (
	PendingAddVerifier    PendingActionKind = "add_verifier"
	PendingRemoveVerifier PendingActionKind = "remove_verifier"
)

// PendingAction remembers which prompt an admin was shown, so that the next
// free-text message from that admin can be routed to it.
type PendingAction struct {
	AdminID   int64
	Kind      PendingActionKind
	ExpiresAt time.Time
}

// IsExpired checks if the prompt is too old to be answered
func (p *PendingAction) IsExpired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
