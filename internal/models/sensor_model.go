package models

import (
	"time"

	"github.com/google/uuid"
)

// SensorModel is a catalog row describing a sensor hardware model. The
// reconciler resolves (or creates) one when it auto-detects a sensor from
// vendor session data.
type SensorModel struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Manufacturer     string    `gorm:"size:100" json:"manufacturer"`
	WearDurationDays int       `gorm:"default:10" json:"wear_duration_days"`
	AutoDetected     bool      `gorm:"not null;default:false" json:"auto_detected"`
	CreatedAt        time.Time `json:"created_at"`
}

func (SensorModel) TableName() string {
	return "sensor_models"
}
