package sync

import (
	"testing"

	"github.com/google/uuid"
)

func TestRunGuard_ExcludesSameUser(t *testing.T) {
	guard := NewRunGuard()
	userID := uuid.New()

	if !guard.TryAcquire(userID) {
		t.Fatal("first acquire should succeed")
	}
	if guard.TryAcquire(userID) {
		t.Error("second acquire for the same user should fail")
	}

	guard.Release(userID)
	if !guard.TryAcquire(userID) {
		t.Error("acquire after release should succeed")
	}
}

func TestRunGuard_IndependentUsers(t *testing.T) {
	guard := NewRunGuard()
	a, b := uuid.New(), uuid.New()

	if !guard.TryAcquire(a) {
		t.Fatal("acquire for user a should succeed")
	}
	if !guard.TryAcquire(b) {
		t.Error("a running sync for one user must not block another user")
	}
}
