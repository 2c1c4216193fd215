package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// BackfillTrigger invokes the downstream correlation procedure after a
// finalized run. It is strictly fire-and-forget: failures are logged and
// swallowed, never surfaced in sync results.
type BackfillTrigger struct {
	url    string
	client *http.Client
}

func NewBackfillTrigger(url string, timeout time.Duration) *BackfillTrigger {
	return &BackfillTrigger{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (b *BackfillTrigger) Trigger(ctx context.Context, userID uuid.UUID, window Window) {
	if b.url == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"user_id":      userID.String(),
		"window_start": window.Start.UTC().Format(time.RFC3339),
		"window_end":   window.End.UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.Warn("backfill payload marshal failed", "user_id", userID.String(), "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		slog.Warn("backfill request build failed", "user_id", userID.String(), "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		slog.Warn("backfill trigger failed", "user_id", userID.String(), "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("backfill trigger rejected",
			"user_id", userID.String(),
			"error", fmt.Sprintf("status %d", resp.StatusCode))
	}
}
