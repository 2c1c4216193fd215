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

type SensorStore struct {
	db *gorm.DB
}

func NewSensorStore(db *gorm.DB) *SensorStore {
	return &SensorStore{db: db}
}

// FindLive returns the non-deleted sensor record for (user, serial), or
// nil when none exists.
func (s *SensorStore) FindLive(ctx context.Context, userID uuid.UUID, serialNumber string) (*models.SensorRecord, error) {
	var record models.SensorRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND serial_number = ? AND is_deleted = ?", userID, serialNumber, false).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up sensor %s: %w", serialNumber, err)
	}
	return &record, nil
}

func (s *SensorStore) Create(ctx context.Context, record *models.SensorRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create sensor record: %w", err)
	}
	return nil
}

// AppendNote adds a provenance line to a sensor record's notes without
// touching existing content, and bumps updated_at.
func (s *SensorStore) AppendNote(ctx context.Context, recordID uuid.UUID, note string) error {
	result := s.db.WithContext(ctx).Model(&models.SensorRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"notes":      gorm.Expr("CASE WHEN notes = '' THEN ?::text ELSE notes || E'\\n' || ? END", note, note),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to append sensor note: %w", result.Error)
	}
	return nil
}

// ResolveModel finds the sensor model by name, creating an auto-detected
// catalog row when the vendor reports a model we have not seen before.
func (s *SensorStore) ResolveModel(ctx context.Context, name, manufacturer string) (*models.SensorModel, error) {
	var model models.SensorModel
	err := s.db.WithContext(ctx).
		Where(models.SensorModel{Name: name}).
		Attrs(models.SensorModel{
			ID:           uuid.New(),
			Manufacturer: manufacturer,
			AutoDetected: true,
		}).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sensor model %q: %w", name, err)
	}
	return &model, nil
}
