package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncSettings governs which sync phases run for a user and records the
// outcome of the most recent run.
type SyncSettings struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	SyncSensorData     bool       `gorm:"not null;default:true" json:"sync_sensor_data"`
	SyncDeviceStatus   bool       `gorm:"not null;default:true" json:"sync_device_status"`
	AutoSyncEnabled    bool       `gorm:"not null;default:false" json:"auto_sync_enabled"`
	LastSuccessfulSync *time.Time `json:"last_successful_sync"`
	LastSyncError      *string    `gorm:"type:text" json:"last_sync_error"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (SyncSettings) TableName() string {
	return "sync_settings"
}
