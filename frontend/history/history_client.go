// Package history reads previously submitted reports back from the
// central log.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"popcheck/models"
)

const maxHistoryBytes = 10 << 20

// SnapshotUnavailable is shown in place of an item snapshot that
// failed to parse. The rest of the record is still usable.
const SnapshotUnavailable = "items unavailable"

// SnapshotItem is one line of the item snapshot stored with a report.
type SnapshotItem struct {
	Item    string `json:"item"`
	Qty     int    `json:"qty"`
	Checked bool   `json:"checked"`
}

// Client queries the remote report log.
type Client struct {
	client   *http.Client
	endpoint string
}

func NewClient(client *http.Client, endpoint string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{client: client, endpoint: endpoint}
}

// Latest returns the authoritative record for one branch and date.
// The remote endpoint answers an ordered list; the last element wins.
// ok is false when no record exists.
func (c *Client) Latest(ctx context.Context, branchLabel, date string) (models.HistoryRecord, bool, error) {
	if c.endpoint == "" {
		return models.HistoryRecord{}, false, fmt.Errorf("history endpoint is not configured")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return models.HistoryRecord{}, false, fmt.Errorf("parse history endpoint: %w", err)
	}
	q := u.Query()
	q.Set("branch", branchLabel)
	q.Set("date", date)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.HistoryRecord{}, false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return models.HistoryRecord{}, false, fmt.Errorf("query history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.HistoryRecord{}, false, fmt.Errorf("history query status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHistoryBytes))
	if err != nil {
		return models.HistoryRecord{}, false, err
	}
	records := make([]models.HistoryRecord, 0)
	if err := json.Unmarshal(body, &records); err != nil {
		return models.HistoryRecord{}, false, fmt.Errorf("decode history response: %w", err)
	}
	if len(records) == 0 {
		return models.HistoryRecord{}, false, nil
	}
	return records[len(records)-1], true, nil
}

// DecodeSnapshot parses the serialized item snapshot of a record. A
// snapshot that fails to parse returns ok=false; callers keep the
// record and show a placeholder instead of discarding it.
func DecodeSnapshot(raw string) ([]SnapshotItem, bool) {
	if raw == "" {
		return nil, false
	}
	items := make([]SnapshotItem, 0)
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	return items, true
}
