package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Window is the [Start, End] time range requested from the vendor for one
// ingestion run, at whole-second precision per the vendor contract.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowCalculator anchors each run's window to the most recently stored
// reading. Windows are forward-only across runs: a run never re-requests
// data strictly before the last stored reading, which is what makes
// retries safe without an explicit cursor table.
type WindowCalculator struct {
	readings        ReadingStore
	defaultLookback time.Duration
	now             func() time.Time
}

func NewWindowCalculator(readings ReadingStore, defaultLookback time.Duration) *WindowCalculator {
	return &WindowCalculator{
		readings:        readings,
		defaultLookback: defaultLookback,
		now:             time.Now,
	}
}

func (w *WindowCalculator) ComputeWindow(ctx context.Context, userID uuid.UUID) (Window, error) {
	end := w.now().UTC().Truncate(time.Second)

	latest, err := w.readings.LatestSystemTime(ctx, userID)
	if err != nil {
		return Window{}, fmt.Errorf("failed to compute sync window: %w", err)
	}

	var start time.Time
	if latest != nil {
		start = latest.UTC().Truncate(time.Second)
	} else {
		start = end.Add(-w.defaultLookback)
	}

	return Window{Start: start, End: end}, nil
}
