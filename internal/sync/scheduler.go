package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// AutoSyncLister lives outside SettingsStore because only the scheduler
// needs it.
type AutoSyncLister interface {
	ListAutoSyncUserIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Scheduler runs periodic syncs for every user with auto-sync enabled and
// an active credential. Runs execute sequentially; one user's failure
// never stops the sweep.
type Scheduler struct {
	orchestrator *Orchestrator
	settings     AutoSyncLister
	interval     time.Duration
}

func NewScheduler(orchestrator *Orchestrator, settings AutoSyncLister, interval time.Duration) *Scheduler {
	return &Scheduler{
		orchestrator: orchestrator,
		settings:     settings,
		interval:     interval,
	}
}

// Start launches the sweep loop. It stops when done is closed.
func (s *Scheduler) Start(done chan struct{}) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.sweep(context.Background())
			case <-done:
				return
			}
		}
	}()
	slog.Info("sync scheduler started", "interval", s.interval.String())
}

func (s *Scheduler) sweep(ctx context.Context) {
	userIDs, err := s.settings.ListAutoSyncUserIDs(ctx)
	if err != nil {
		slog.Error("scheduler failed to list users", "error", err)
		return
	}

	for _, userID := range userIDs {
		result, err := s.orchestrator.Run(ctx, userID)
		if err != nil {
			// Precondition failures here are routine (revoked tokens,
			// overlapping manual sync); keep sweeping.
			slog.Warn("scheduled sync skipped", "user_id", userID.String(), "error", err)
			continue
		}
		slog.Info("scheduled sync completed",
			"user_id", userID.String(),
			"status", result.Status,
			"readings", result.GlucoseReadings)
	}
}
