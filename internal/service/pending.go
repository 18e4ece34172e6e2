package service

import (
	"sync"
	"time"

	"github.com/xreward/backend/internal/model"
)

// PendingActions tracks which admin prompt is waiting for a typed reply.
// Entries are per admin, so several admins can be mid-prompt at once.
type PendingActions struct {
	mu      sync.Mutex
	actions map[int64]model.PendingAction
	ttl     time.Duration
	now     func() time.Time
}

func NewPendingActions(ttl time.Duration) *PendingActions {
	return &PendingActions{
		actions: make(map[int64]model.PendingAction),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock replaces the time source (used by tests)
func (p *PendingActions) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// Set records the prompt shown to adminID, replacing any earlier one.
func (p *PendingActions) Set(adminID int64, kind model.PendingActionKind) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	for id, a := range p.actions {
		if a.IsExpired(now) {
			delete(p.actions, id)
		}
	}

	p.actions[adminID] = model.PendingAction{
		AdminID:   adminID,
		Kind:      kind,
		ExpiresAt: now.Add(p.ttl),
	}
}

// Take returns and clears the pending prompt of adminID.
func (p *PendingActions) Take(adminID int64) (model.PendingActionKind, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.actions[adminID]
	if !ok {
		return "", false
	}
	delete(p.actions, adminID)
	if a.IsExpired(p.now()) {
		return "", false
	}
	return a.Kind, true
}

// Has reports whether adminID has an unexpired prompt.
func (p *PendingActions) Has(adminID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	a, ok := p.actions[adminID]
	return ok && !a.IsExpired(p.now())
}

func (p *PendingActions) Clear(adminID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.actions, adminID)
}
