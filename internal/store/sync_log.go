package store

import (
	"context"
	"fmt"

	"github.com/denizozen/glucolink-backend/internal/models"
	"gorm.io/gorm"
)

type SyncLogStore struct {
	db *gorm.DB
}

func NewSyncLogStore(db *gorm.DB) *SyncLogStore {
	return &SyncLogStore{db: db}
}

// Append writes one audit row. Entries are immutable once written.
func (s *SyncLogStore) Append(ctx context.Context, entry *models.SyncLogEntry) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append sync log entry: %w", err)
	}
	return nil
}
