package sync

import (
	"context"
	"time"

	"github.com/denizozen/glucolink-backend/internal/dexcom"
	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/denizozen/glucolink-backend/internal/store"
	"github.com/google/uuid"
)

// VendorClient is the outbound vendor API surface the engine depends on.
type VendorClient interface {
	Probe(ctx context.Context, accessToken string) error
	ListEGVs(ctx context.Context, accessToken string, start, end time.Time) ([]dexcom.EGV, []error, error)
	ListDevices(ctx context.Context, accessToken string) ([]dexcom.Device, error)
	ListSessions(ctx context.Context, accessToken string, start, end time.Time) ([]dexcom.SensorSession, error)
}

type CredentialStore interface {
	ActiveForUser(ctx context.Context, userID uuid.UUID) (*models.SyncCredential, error)
	TouchLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type SettingsStore interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*models.SyncSettings, error)
	RecordRunOutcome(ctx context.Context, userID uuid.UUID, at time.Time, syncErr *string) error
}

type ReadingStore interface {
	LatestSystemTime(ctx context.Context, userID uuid.UUID) (*time.Time, error)
	Insert(ctx context.Context, reading *models.GlucoseReading) (store.InsertOutcome, error)
}

type SensorStore interface {
	FindLive(ctx context.Context, userID uuid.UUID, serialNumber string) (*models.SensorRecord, error)
	Create(ctx context.Context, record *models.SensorRecord) error
	AppendNote(ctx context.Context, recordID uuid.UUID, note string) error
	ResolveModel(ctx context.Context, name, manufacturer string) (*models.SensorModel, error)
}

type SyncLogStore interface {
	Append(ctx context.Context, entry *models.SyncLogEntry) error
}
