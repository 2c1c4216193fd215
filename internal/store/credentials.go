package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNoActiveCredential = errors.New("no active sync credential")

type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// ActiveForUser returns the user's active vendor credential.
func (s *CredentialStore) ActiveForUser(ctx context.Context, userID uuid.UUID) (*models.SyncCredential, error) {
	var cred models.SyncCredential
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&cred).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveCredential
		}
		return nil, fmt.Errorf("failed to load credential: %w", err)
	}
	return &cred, nil
}

// TouchLastSync stamps the active credential with the completion time of a run.
func (s *CredentialStore) TouchLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error {
	result := s.db.WithContext(ctx).Model(&models.SyncCredential{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Updates(map[string]interface{}{
			"last_sync_at": at,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to touch last_sync_at: %w", result.Error)
	}
	return nil
}
