package sync

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
)

const (
	syncType      = "dexcom"
	syncOperation = "incremental_sync"
)

// Result aggregates one orchestration run.
type Result struct {
	Status           string   `json:"-"`
	SensorsProcessed int      `json:"sensors_processed"`
	DevicesProcessed int      `json:"devices_processed"`
	GlucoseReadings  int      `json:"glucose_readings"`
	NewSensors       int      `json:"new_sensors"`
	UpdatedSensors   int      `json:"updated_sensors"`
	Errors           []string `json:"errors"`
	APICalls         int      `json:"-"`
}

// Orchestrator sequences a sync run: validate, ingest, reconcile, finalize,
// backfill. A precondition failure is terminal with zero writes and no
// audit row. Any run that reaches ingestion always finalizes, no matter
// how many item-level errors accumulated along the way.
type Orchestrator struct {
	guard       *RunGuard
	validator   *TokenValidator
	windows     *WindowCalculator
	ingestor    *ReadingIngestor
	reconciler  *SessionReconciler
	backfill    *BackfillTrigger
	credentials CredentialStore
	settings    SettingsStore
	logs        SyncLogStore
	now         func() time.Time
}

func NewOrchestrator(
	validator *TokenValidator,
	windows *WindowCalculator,
	ingestor *ReadingIngestor,
	reconciler *SessionReconciler,
	backfill *BackfillTrigger,
	credentials CredentialStore,
	settings SettingsStore,
	logs SyncLogStore,
) *Orchestrator {
	return &Orchestrator{
		guard:       NewRunGuard(),
		validator:   validator,
		windows:     windows,
		ingestor:    ingestor,
		reconciler:  reconciler,
		backfill:    backfill,
		credentials: credentials,
		settings:    settings,
		logs:        logs,
		now:         time.Now,
	}
}

func (o *Orchestrator) Run(ctx context.Context, userID uuid.UUID) (*Result, error) {
	if !o.guard.TryAcquire(userID) {
		return nil, ErrSyncInProgress
	}
	defer o.guard.Release(userID)

	cred, err := o.validator.Validate(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings, err := o.settings.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync settings: %w", err)
	}

	window, err := o.windows.ComputeWindow(ctx, userID)
	if err != nil {
		return nil, err
	}

	slog.Info("sync run started",
		"user_id", userID.String(),
		"window_start", window.Start,
		"window_end", window.End)

	result := &Result{Errors: []string{}, APICalls: 1} // probe already made

	if settings.SyncSensorData {
		ing := o.ingestor.Ingest(ctx, userID, window, cred)
		result.GlucoseReadings = ing.Inserted
		result.APICalls += ing.APICalls
		result.Errors = append(result.Errors, ing.Errors...)
	}

	if settings.SyncDeviceStatus {
		rec := o.reconciler.Reconcile(ctx, userID, cred)
		result.DevicesProcessed = rec.DevicesProcessed
		result.NewSensors = rec.NewSensors
		result.UpdatedSensors = rec.UpdatedSensors
		result.SensorsProcessed = rec.NewSensors + rec.UpdatedSensors
		result.APICalls += rec.APICalls
		result.Errors = append(result.Errors, rec.Errors...)
	}

	o.finalize(ctx, userID, window, result)
	return result, nil
}

// finalize writes exactly one audit row, unconditionally updates the
// credential and settings sync-state fields, then fires the backfill
// trigger. Persistence failures here are reported but never fail the run;
// the caller still receives the aggregated result.
func (o *Orchestrator) finalize(ctx context.Context, userID uuid.UUID, window Window, result *Result) {
	completedAt := o.now()

	result.Status = models.SyncStatusSuccess
	var errorMessage *string
	if len(result.Errors) > 0 {
		result.Status = models.SyncStatusPartial
		joined := strings.Join(result.Errors, "; ")
		if len(joined) > 2000 {
			joined = joined[:2000]
		}
		errorMessage = &joined
	}

	entry := models.SyncLogEntry{
		ID:               uuid.New(),
		UserID:           userID,
		SyncType:         syncType,
		Operation:        syncOperation,
		Status:           result.Status,
		RecordsProcessed: result.GlucoseReadings + result.DevicesProcessed,
		ErrorMessage:     errorMessage,
		APICallsMade:     result.APICalls,
	}
	if err := o.logs.Append(ctx, &entry); err != nil {
		slog.Error("failed to write sync log entry", "user_id", userID.String(), "error", err)
		sentry.CaptureException(err)
	}

	if err := o.credentials.TouchLastSync(ctx, userID, completedAt); err != nil {
		slog.Error("failed to touch credential", "user_id", userID.String(), "error", err)
		sentry.CaptureException(err)
	}

	if err := o.settings.RecordRunOutcome(ctx, userID, completedAt, errorMessage); err != nil {
		slog.Error("failed to record run outcome", "user_id", userID.String(), "error", err)
		sentry.CaptureException(err)
	}

	o.backfill.Trigger(ctx, userID, window)

	slog.Info("sync run finalized",
		"user_id", userID.String(),
		"status", result.Status,
		"readings", result.GlucoseReadings,
		"devices", result.DevicesProcessed,
		"api_calls", result.APICalls,
		"errors", len(result.Errors))
}
