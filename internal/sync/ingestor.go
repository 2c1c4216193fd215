package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/denizozen/glucolink-backend/internal/models"
	"github.com/denizozen/glucolink-backend/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const readingSource = "vendor-sync"

// IngestResult reports one ingestion phase: newly inserted rows, vendor
// call count, and non-duplicate item errors.
type IngestResult struct {
	Inserted int
	APICalls int
	Errors   []string
}

// ReadingIngestor fetches the windowed glucose values and persists them
// with per-record isolation: one malformed record never aborts the batch.
type ReadingIngestor struct {
	vendor   VendorClient
	readings ReadingStore
}

func NewReadingIngestor(vendor VendorClient, readings ReadingStore) *ReadingIngestor {
	return &ReadingIngestor{vendor: vendor, readings: readings}
}

func (i *ReadingIngestor) Ingest(ctx context.Context, userID uuid.UUID, window Window, cred *models.SyncCredential) IngestResult {
	result := IngestResult{APICalls: 1}

	egvs, recordErrs, err := i.vendor.ListEGVs(ctx, cred.AccessToken, window.Start, window.End)
	if err != nil {
		// Transport failure for the whole phase; the next phase still runs.
		result.Errors = append(result.Errors, fmt.Sprintf("egv fetch failed: %v", err))
		return result
	}
	for _, recordErr := range recordErrs {
		result.Errors = append(result.Errors, recordErr.Error())
	}

	for _, egv := range egvs {
		reading := models.GlucoseReading{
			ID:            uuid.New(),
			UserID:        userID,
			RecordID:      egv.RecordID,
			TransmitterID: egv.TransmitterID,
			Value:         egv.Value,
			Unit:          egv.Unit,
			Trend:         egv.Trend,
			TrendRate:     egv.TrendRate,
			SystemTime:    egv.SystemTime,
			DisplayTime:   egv.DisplayTime,
			Source:        readingSource,
		}
		if len(egv.DeviceMetadata) > 0 {
			if b, err := json.Marshal(egv.DeviceMetadata); err == nil {
				reading.DeviceMetadata = datatypes.JSON(b)
			}
		}

		outcome, err := i.readings.Insert(ctx, &reading)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("record %s: %v", egv.RecordID, err))
			continue
		}
		if outcome == store.Inserted {
			result.Inserted++
		}
		// AlreadyExists is a successful no-op, not an error.
	}

	slog.Info("glucose ingestion finished",
		"user_id", userID.String(),
		"fetched", len(egvs),
		"inserted", result.Inserted,
		"errors", len(result.Errors))
	return result
}
