package history

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"popcheck/frontend/branch"
)

type recordView struct {
	TrackingID   string         `json:"trackingId"`
	Branch       string         `json:"branch"`
	Date         string         `json:"date"`
	Note         string         `json:"note"`
	MissingItems string         `json:"missingItems"`
	Items        []SnapshotItem `json:"items"`
	ItemsNote    string         `json:"itemsNote,omitempty"`
}

// RecordQueryHandler returns the latest submitted record for a branch
// and date. A corrupt item snapshot degrades to a placeholder note
// rather than hiding the record.
func RecordQueryHandler(client *Client, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canonicalLabel, ok := branch.Resolve(r.URL.Query().Get("branch"), canonical)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown branch"})
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "date is required"})
			return
		}

		record, found, err := client.Latest(r.Context(), canonicalLabel, date)
		if err != nil {
			slog.Error("history query failed", slog.String("branch", canonicalLabel), slog.Any("err", err))
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": "history store unavailable"})
			return
		}
		if !found {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "no record for this branch and date"})
			return
		}

		view := recordView{
			TrackingID:   record.TrackingID,
			Branch:       record.Branch,
			Date:         record.Date,
			Note:         record.Note,
			MissingItems: record.MissingItems,
		}
		items, parsed := DecodeSnapshot(record.ItemsSnapshot)
		if parsed {
			view.Items = items
		} else {
			view.ItemsNote = SnapshotUnavailable
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
