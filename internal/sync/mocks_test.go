package sync

import (
	"context"
	"time"

	"github.com/denizozen/glucolink-backend/internal/dexcom"
	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/denizozen/glucolink-backend/internal/store"
	"github.com/google/uuid"
)

type mockVendor struct {
	probeFunc        func(ctx context.Context, token string) error
	listEGVsFunc     func(ctx context.Context, token string, start, end time.Time) ([]dexcom.EGV, []error, error)
	listDevicesFunc  func(ctx context.Context, token string) ([]dexcom.Device, error)
	listSessionsFunc func(ctx context.Context, token string, start, end time.Time) ([]dexcom.SensorSession, error)
}

func (m *mockVendor) Probe(ctx context.Context, token string) error {
	if m.probeFunc != nil {
		return m.probeFunc(ctx, token)
	}
	return nil
}

func (m *mockVendor) ListEGVs(ctx context.Context, token string, start, end time.Time) ([]dexcom.EGV, []error, error) {
	if m.listEGVsFunc != nil {
		return m.listEGVsFunc(ctx, token, start, end)
	}
	return nil, nil, nil
}

func (m *mockVendor) ListDevices(ctx context.Context, token string) ([]dexcom.Device, error) {
	if m.listDevicesFunc != nil {
		return m.listDevicesFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockVendor) ListSessions(ctx context.Context, token string, start, end time.Time) ([]dexcom.SensorSession, error) {
	if m.listSessionsFunc != nil {
		return m.listSessionsFunc(ctx, token, start, end)
	}
	return nil, nil
}

type mockCredentialStore struct {
	activeFunc func(ctx context.Context, userID uuid.UUID) (*models.SyncCredential, error)
	touchedAt  *time.Time
}

func (m *mockCredentialStore) ActiveForUser(ctx context.Context, userID uuid.UUID) (*models.SyncCredential, error) {
	if m.activeFunc != nil {
		return m.activeFunc(ctx, userID)
	}
	return nil, store.ErrNoActiveCredential
}

func (m *mockCredentialStore) TouchLastSync(ctx context.Context, userID uuid.UUID, at time.Time) error {
	m.touchedAt = &at
	return nil
}

type mockSettingsStore struct {
	settings        *models.SyncSettings
	recordedAt      *time.Time
	recordedSyncErr *string
}

func (m *mockSettingsStore) ForUser(ctx context.Context, userID uuid.UUID) (*models.SyncSettings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	return &models.SyncSettings{UserID: userID, SyncSensorData: true, SyncDeviceStatus: true}, nil
}

func (m *mockSettingsStore) RecordRunOutcome(ctx context.Context, userID uuid.UUID, at time.Time, syncErr *string) error {
	m.recordedAt = &at
	m.recordedSyncErr = syncErr
	return nil
}

// fakeReadingStore is a stateful in-memory store keyed by record id, so
// idempotence scenarios behave like the real unique index.
type fakeReadingStore struct {
	readings map[string]models.GlucoseReading
	failOn   map[string]error
}

func newFakeReadingStore() *fakeReadingStore {
	return &fakeReadingStore{
		readings: make(map[string]models.GlucoseReading),
		failOn:   make(map[string]error),
	}
}

func (f *fakeReadingStore) LatestSystemTime(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	for _, r := range f.readings {
		t := r.SystemTime
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

func (f *fakeReadingStore) Insert(ctx context.Context, reading *models.GlucoseReading) (store.InsertOutcome, error) {
	if err, ok := f.failOn[reading.RecordID]; ok {
		return 0, err
	}
	if _, exists := f.readings[reading.RecordID]; exists {
		return store.AlreadyExists, nil
	}
	f.readings[reading.RecordID] = *reading
	return store.Inserted, nil
}

type fakeSensorStore struct {
	records map[string]*models.SensorRecord
	models  map[string]*models.SensorModel
	notes   map[string][]string
	findErr error
}

func newFakeSensorStore() *fakeSensorStore {
	return &fakeSensorStore{
		records: make(map[string]*models.SensorRecord),
		models:  make(map[string]*models.SensorModel),
		notes:   make(map[string][]string),
	}
}

func (f *fakeSensorStore) FindLive(ctx context.Context, userID uuid.UUID, serialNumber string) (*models.SensorRecord, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if rec, ok := f.records[serialNumber]; ok && !rec.IsDeleted {
		return rec, nil
	}
	return nil, nil
}

func (f *fakeSensorStore) Create(ctx context.Context, record *models.SensorRecord) error {
	f.records[record.SerialNumber] = record
	return nil
}

func (f *fakeSensorStore) AppendNote(ctx context.Context, recordID uuid.UUID, note string) error {
	f.notes[recordID.String()] = append(f.notes[recordID.String()], note)
	return nil
}

func (f *fakeSensorStore) ResolveModel(ctx context.Context, name, manufacturer string) (*models.SensorModel, error) {
	if m, ok := f.models[name]; ok {
		return m, nil
	}
	m := &models.SensorModel{ID: uuid.New(), Name: name, Manufacturer: manufacturer, AutoDetected: true}
	f.models[name] = m
	return m, nil
}

type mockSyncLogStore struct {
	entries []models.SyncLogEntry
	failErr error
}

func (m *mockSyncLogStore) Append(ctx context.Context, entry *models.SyncLogEntry) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func activeCredential(userID uuid.UUID) *models.SyncCredential {
	return &models.SyncCredential{
		ID:          uuid.New(),
		UserID:      userID,
		AccessToken: "token-123",
		ExpiresAt:   time.Now().Add(time.Hour),
		IsActive:    true,
	}
}
