package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/denizozen/glucolink-backend/internal/dexcom"
	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/google/uuid"
)

const (
	defaultModelName    = "CGM Sensor"
	defaultManufacturer = "Dexcom"
)

// ReconcileResult reports one reconciliation phase.
type ReconcileResult struct {
	DevicesProcessed int
	NewSensors       int
	UpdatedSensors   int
	APICalls         int
	Errors           []string
}

// SessionReconciler matches vendor-reported sensor sessions against stored
// sensor records, creating auto-detected records for new hardware and
// appending provenance notes to known ones. Failures are isolated at the
// per-device and per-session granularity.
type SessionReconciler struct {
	vendor       VendorClient
	sensors      SensorStore
	lookbackDays int
	now          func() time.Time
}

func NewSessionReconciler(vendor VendorClient, sensors SensorStore, lookbackDays int) *SessionReconciler {
	return &SessionReconciler{
		vendor:       vendor,
		sensors:      sensors,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

func (r *SessionReconciler) Reconcile(ctx context.Context, userID uuid.UUID, cred *models.SyncCredential) ReconcileResult {
	result := ReconcileResult{APICalls: 1}

	devices, err := r.vendor.ListDevices(ctx, cred.AccessToken)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("device fetch failed: %v", err))
		return result
	}

	end := r.now().UTC().Truncate(time.Second)
	start := end.AddDate(0, 0, -r.lookbackDays)

	for _, device := range devices {
		result.DevicesProcessed++
		result.APICalls++

		sessions, err := r.vendor.ListSessions(ctx, cred.AccessToken, start, end)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("device %s: session fetch failed: %v", device.TransmitterID, err))
			continue
		}

		for _, session := range sessions {
			if err := r.reconcileSession(ctx, userID, device, session, &result); err != nil {
				result.Errors = append(result.Errors, err.Error())
			}
		}
	}

	slog.Info("session reconciliation finished",
		"user_id", userID.String(),
		"devices", result.DevicesProcessed,
		"new_sensors", result.NewSensors,
		"updated_sensors", result.UpdatedSensors,
		"errors", len(result.Errors))
	return result
}

func (r *SessionReconciler) reconcileSession(ctx context.Context, userID uuid.UUID, device dexcom.Device, session dexcom.SensorSession, result *ReconcileResult) error {
	serial := session.SerialNumber
	if serial == "" {
		serial = device.TransmitterID
	}
	if serial == "" {
		return fmt.Errorf("session without serial number skipped")
	}

	existing, err := r.sensors.FindLive(ctx, userID, serial)
	if err != nil {
		return fmt.Errorf("sensor %s: %v", serial, err)
	}

	note := r.provenanceNote(serial, session)

	if existing != nil {
		if err := r.sensors.AppendNote(ctx, existing.ID, note); err != nil {
			return fmt.Errorf("sensor %s: %v", serial, err)
		}
		result.UpdatedSensors++
		return nil
	}

	modelName := session.ModelName
	if modelName == "" {
		modelName = device.TransmitterGeneration
	}
	if modelName == "" {
		modelName = defaultModelName
	}

	model, err := r.sensors.ResolveModel(ctx, modelName, defaultManufacturer)
	if err != nil {
		return fmt.Errorf("sensor %s: %v", serial, err)
	}

	dateAdded := r.now().UTC()
	if session.StartedAt != nil {
		dateAdded = *session.StartedAt
	}

	record := models.SensorRecord{
		ID:           uuid.New(),
		UserID:       userID,
		SerialNumber: serial,
		DateAdded:    dateAdded,
		ModelID:      &model.ID,
		AutoDetected: true,
		Notes:        note,
	}
	if err := r.sensors.Create(ctx, &record); err != nil {
		return fmt.Errorf("sensor %s: %v", serial, err)
	}
	result.NewSensors++
	return nil
}

func (r *SessionReconciler) provenanceNote(serial string, session dexcom.SensorSession) string {
	stamp := r.now().UTC().Format(time.RFC3339)
	if session.StartedAt != nil {
		return fmt.Sprintf("[%s] vendor sync: session for %s started %s",
			stamp, serial, session.StartedAt.UTC().Format(time.RFC3339))
	}
	return fmt.Sprintf("[%s] vendor sync: session observed for %s", stamp, serial)
}
