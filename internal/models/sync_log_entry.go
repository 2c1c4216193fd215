package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
)

// SyncLogEntry is the append-only audit row written once per orchestration
// run that reached the finalizing stage. Rows are immutable once written.
type SyncLogEntry struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SyncType         string    `gorm:"size:50;not null" json:"sync_type"`
	Operation        string    `gorm:"size:50;not null" json:"operation"`
	Status           string    `gorm:"size:20;not null" json:"status"`
	RecordsProcessed int       `gorm:"not null;default:0" json:"records_processed"`
	ErrorMessage     *string   `gorm:"type:text" json:"error_message"`
	APICallsMade     int       `gorm:"not null;default:0" json:"api_calls_made"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

func (SyncLogEntry) TableName() string {
	return "sync_log_entries"
}
