package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GlucoseReading is one EGV ingested from the vendor. The composite unique
// index on (user_id, record_id) is the idempotency key: a conflicting
// insert is a successful no-op, which is what makes re-running a sync safe.
type GlucoseReading struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_glucose_readings_user_record,priority:1" json:"user_id"`
	RecordID       string         `gorm:"size:255;not null;uniqueIndex:idx_glucose_readings_user_record,priority:2" json:"record_id"`
	TransmitterID  string         `gorm:"size:100" json:"transmitter_id"`
	Value          float64        `gorm:"not null" json:"value"`
	Unit           string         `gorm:"size:20;not null;default:'mg/dL'" json:"unit"`
	Trend          string         `gorm:"size:50" json:"trend"`
	TrendRate      *float64       `json:"trend_rate"`
	SystemTime     time.Time      `gorm:"not null;index" json:"system_time"`
	DisplayTime    time.Time      `gorm:"not null" json:"display_time"`
	DeviceMetadata datatypes.JSON `gorm:"type:jsonb;default:'{}'" json:"device_metadata"`
	Source         string         `gorm:"size:50;not null;default:'vendor-sync'" json:"source"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (GlucoseReading) TableName() string {
	return "glucose_readings"
}
