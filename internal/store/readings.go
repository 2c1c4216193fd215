package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InsertOutcome is the result of an idempotent insert. Callers never have
// to inspect storage-layer error strings to tell a duplicate from a real
// failure.
type InsertOutcome int

const (
	Inserted InsertOutcome = iota
	AlreadyExists
)

type ReadingStore struct {
	db *gorm.DB
}

func NewReadingStore(db *gorm.DB) *ReadingStore {
	return &ReadingStore{db: db}
}

// LatestSystemTime returns the system_time of the most recently stored
// reading for the user, or nil when none exists.
func (s *ReadingStore) LatestSystemTime(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var reading models.GlucoseReading
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("system_time DESC").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}
	t := reading.SystemTime
	return &t, nil
}

// Insert writes a reading, treating a (user_id, record_id) conflict as
// AlreadyExists rather than an error.
func (s *ReadingStore) Insert(ctx context.Context, reading *models.GlucoseReading) (InsertOutcome, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "record_id"}},
		DoNothing: true,
	}).Create(reading)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to insert reading %s: %w", reading.RecordID, result.Error)
	}
	if result.RowsAffected == 0 {
		return AlreadyExists, nil
	}
	return Inserted, nil
}

// CountForUser returns the number of stored readings for a user.
func (s *ReadingStore) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.GlucoseReading{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}
