package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/denizozen/glucolink-backend/internal/store"
	"github.com/google/uuid"
)

// TokenValidator proves a user's credential is usable before any sync work
// begins. It has no side effects; a bad credential must short-circuit the
// whole run with zero partial writes.
type TokenValidator struct {
	credentials CredentialStore
	vendor      VendorClient
	now         func() time.Time
}

func NewTokenValidator(credentials CredentialStore, vendor VendorClient) *TokenValidator {
	return &TokenValidator{
		credentials: credentials,
		vendor:      vendor,
		now:         time.Now,
	}
}

// Validate looks up the active credential, checks local expiry against
// wall-clock now (no grace period), then probes the vendor once. The probe
// catches server-side revocation the local expiry cannot see.
func (v *TokenValidator) Validate(ctx context.Context, userID uuid.UUID) (*models.SyncCredential, error) {
	cred, err := v.credentials.ActiveForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveCredential) {
			return nil, ErrNoActiveCredential
		}
		return nil, fmt.Errorf("credential lookup failed: %w", err)
	}

	if v.now().After(cred.ExpiresAt) {
		return nil, ErrCredentialExpired
	}

	if err := v.vendor.Probe(ctx, cred.AccessToken); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	return cred, nil
}
