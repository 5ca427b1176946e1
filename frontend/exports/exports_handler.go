package exports

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"popcheck/frontend/branch"
	"popcheck/frontend/history"
)

// RecordPDFQueryHandler renders the latest record for a branch and
// date as a downloadable PDF.
func RecordPDFQueryHandler(client *history.Client, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		canonicalLabel, ok := branch.Resolve(r.URL.Query().Get("branch"), canonical)
		if !ok {
			writeJSONError(w, http.StatusNotFound, "unknown branch")
			return
		}
		date := r.URL.Query().Get("date")
		if date == "" {
			writeJSONError(w, http.StatusBadRequest, "date is required")
			return
		}

		record, found, err := client.Latest(r.Context(), canonicalLabel, date)
		if err != nil {
			slog.Error("history query failed", slog.String("branch", canonicalLabel), slog.Any("err", err))
			writeJSONError(w, http.StatusBadGateway, "history store unavailable")
			return
		}
		if !found {
			writeJSONError(w, http.StatusNotFound, "no record for this branch and date")
			return
		}

		items, snapshotOK := history.DecodeSnapshot(record.ItemsSnapshot)
		pdfBytes, err := RenderReportPDF(record, items, snapshotOK, time.Now())
		if err != nil {
			slog.Error("render record pdf failed", slog.String("trackingId", record.TrackingID), slog.Any("err", err))
			writeJSONError(w, http.StatusInternalServerError, "could not render record")
			return
		}

		filename := fmt.Sprintf("pop-record-%s.pdf", date)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdfBytes)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{"error": message}); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
