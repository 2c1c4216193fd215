package sync

import "errors"

// Precondition errors abort a run before any writes and produce no audit
// log entry. Everything else is recovered and reported inside the result.
var (
	ErrNoActiveCredential = errors.New("no active vendor credential")
	ErrCredentialExpired  = errors.New("vendor credential expired")
	ErrInvalidCredential  = errors.New("vendor rejected credential")
	ErrSyncInProgress     = errors.New("a sync is already running for this user")
)

// IsPrecondition reports whether err belongs to the precondition class.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoActiveCredential) ||
		errors.Is(err, ErrCredentialExpired) ||
		errors.Is(err, ErrInvalidCredential) ||
		errors.Is(err, ErrSyncInProgress)
}
