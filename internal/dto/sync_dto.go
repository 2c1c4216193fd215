package dto

import (
	"github.com/denizozen/glucolink-backend/internal/sync"
	"github.com/google/uuid"
)

type SyncRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type SyncResponse struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message,omitempty"`
	Error       string       `json:"error,omitempty"`
	SyncResults *sync.Result `json:"sync_results,omitempty"`
}
