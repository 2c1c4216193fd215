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

type SettingsStore struct {
	db *gorm.DB
}

func NewSettingsStore(db *gorm.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// ForUser returns the user's sync settings. Users without a row get the
// defaults: both phases enabled, auto-sync off.
func (s *SettingsStore) ForUser(ctx context.Context, userID uuid.UUID) (*models.SyncSettings, error) {
	var settings models.SyncSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SyncSettings{
			UserID:           userID,
			SyncSensorData:   true,
			SyncDeviceStatus: true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sync settings: %w", err)
	}
	return &settings, nil
}

// RecordRunOutcome updates the per-user sync-state fields after a finalized
// run. A clean run stamps last_successful_sync and clears last_sync_error;
// a partial run records the first error.
func (s *SettingsStore) RecordRunOutcome(ctx context.Context, userID uuid.UUID, at time.Time, syncErr *string) error {
	updates := map[string]interface{}{
		"last_successful_sync": at,
		"last_sync_error":      syncErr,
		"updated_at":           time.Now(),
	}
	result := s.db.WithContext(ctx).Model(&models.SyncSettings{}).
		Where("user_id = ?", userID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to record run outcome: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		settings := models.SyncSettings{
			ID:                 uuid.New(),
			UserID:             userID,
			SyncSensorData:     true,
			SyncDeviceStatus:   true,
			LastSuccessfulSync: &at,
			LastSyncError:      syncErr,
		}
		if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to create sync settings: %w", err)
		}
	}
	return nil
}

// ListAutoSyncUserIDs returns users eligible for scheduled syncs: auto-sync
// enabled and an active credential on file.
func (s *SettingsStore) ListAutoSyncUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.SyncSettings{}).
		Joins("JOIN sync_credentials ON sync_credentials.user_id = sync_settings.user_id AND sync_credentials.is_active = true").
		Where("sync_settings.auto_sync_enabled = ?", true).
		Distinct().
		Pluck("sync_settings.user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-sync users: %w", err)
	}
	return ids, nil
}
