package sync

import (
	gosync "sync"

	"github.com/google/uuid"
)

// RunGuard provides per-user mutual exclusion for sync runs. Duplicate
// reading inserts are tolerated by the idempotency key, but the
// reconciler's read-then-write on sensor records is not race-free, so two
// runs for the same user must never overlap.
type RunGuard struct {
	mu      gosync.Mutex
	running map[uuid.UUID]struct{}
}

func NewRunGuard() *RunGuard {
	return &RunGuard{running: make(map[uuid.UUID]struct{})}
}

// TryAcquire reserves the user's run slot. It never blocks; a second
// caller for the same user gets false.
func (g *RunGuard) TryAcquire(userID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.running[userID]; busy {
		return false
	}
	g.running[userID] = struct{}{}
	return true
}

func (g *RunGuard) Release(userID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, userID)
}
