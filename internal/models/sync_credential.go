package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncCredential is the per-user vendor OAuth credential. It is provisioned
// by the OAuth authorization flow elsewhere; the sync engine only reads the
// active row and touches LastSyncAt. Invariant: at most one row with
// IsActive=true per user.
type SyncCredential struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_sync_credentials_user" json:"user_id"`
	AccessToken  string     `gorm:"type:text;not null" json:"-"`
	RefreshToken string     `gorm:"type:text" json:"-"`
	ExpiresAt    time.Time  `gorm:"not null" json:"expires_at"`
	Scope        string     `gorm:"size:255" json:"scope"`
	IsActive     bool       `gorm:"not null;default:true;index:idx_sync_credentials_user" json:"is_active"`
	LastSyncAt   *time.Time `json:"last_sync_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (SyncCredential) TableName() string {
	return "sync_credentials"
}
