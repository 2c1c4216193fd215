package models

import (
	"time"

	"github.com/google/uuid"
)

// SensorRecord tracks a physical sensor matched by its transmitter serial
// number. Notes is an append-only provenance trail; the reconciler never
// overwrites user-entered content. Invariant: at most one non-deleted row
// per (user_id, serial_number). Soft deletion is driven by user action
// outside the sync engine.
type SensorRecord struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_sensor_records_user_serial" json:"user_id"`
	SerialNumber string     `gorm:"size:100;not null;index:idx_sensor_records_user_serial" json:"serial_number"`
	DateAdded    time.Time  `gorm:"not null" json:"date_added"`
	ModelID      *uuid.UUID `gorm:"type:uuid" json:"model_id"`
	Model        *SensorModel `gorm:"foreignKey:ModelID" json:"model,omitempty"`
	AutoDetected bool       `gorm:"not null;default:false" json:"auto_detected"`
	Notes        string     `gorm:"type:text" json:"notes"`
	IsDeleted    bool       `gorm:"not null;default:false;index:idx_sensor_records_user_serial" json:"is_deleted"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (SensorRecord) TableName() string {
	return "sensor_records"
}
