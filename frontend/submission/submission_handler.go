package submission

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"popcheck/frontend/branch"
	"popcheck/frontend/catalog"
	"popcheck/frontend/checklist"
	"popcheck/infrastructure/metrics"
	"popcheck/infrastructure/sqlite"
)

const (
	maxUploadBytes = 20 << 20
	maxPhotoBytes  = 5 << 20
)

// CreateCommandHandler validates and dispatches one report. On
// delivery the branch's check state is cleared; on any failure the
// operator's state is preserved for retry.
func CreateCommandHandler(svc *catalog.Service, store *checklist.Store, dispatcher *Dispatcher, db *sqlite.DB, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid form"})
			return
		}

		canonicalLabel, ok := branch.Resolve(r.FormValue("branch"), canonical)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown branch"})
			return
		}

		date := store.ReportDate()
		if date == "" {
			writeJSON(w, http.StatusConflict, map[string]any{"error": checklist.ErrNoReportDate.Error()})
			return
		}

		images, err := encodePhotos(r.MultipartForm)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}

		note := r.FormValue("note")
		defectMode := r.FormValue("defect") == "1" || r.FormValue("defect") == "true"

		branchItems := svc.ItemsForBranch(canonicalLabel, "")
		report, mode, err := ValidateAndBuild(canonicalLabel, date, branchItems, store.IsChecked, note, images, defectMode)
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			// Rejections before mode derivation carry no mode.
			mode := string(validationErr.Mode)
			if mode == "" {
				mode = "precondition"
			}
			metrics.Submissions.WithLabelValues(mode, "rejected").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error": validationErr.Message,
				"mode":  mode,
			})
			return
		}
		if err != nil {
			slog.Error("build report failed", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not build report"})
			return
		}

		if err := dispatcher.Send(r.Context(), report); err != nil {
			slog.Error("report dispatch failed", slog.String("trackingId", report.TrackingID), slog.Any("err", err))
			recordRun(r.Context(), db, report, mode, "failed")
			metrics.Submissions.WithLabelValues(string(mode), "failed").Inc()
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error": "report could not be delivered; your entries were kept for retry",
			})
			return
		}

		// Clear exactly this branch's item ids so the next cycle
		// starts unchecked; other branches are untouched.
		ids := make([]string, 0, len(branchItems))
		for _, item := range branchItems {
			ids = append(ids, item.ID)
		}
		if err := store.Clear(r.Context(), ids); err != nil {
			slog.Error("clear check state after dispatch failed", slog.String("branch", canonicalLabel), slog.Any("err", err))
		}

		recordRun(r.Context(), db, report, mode, "ok")
		metrics.Submissions.WithLabelValues(string(mode), "ok").Inc()
		writeJSON(w, http.StatusCreated, map[string]any{
			"trackingId":   report.TrackingID,
			"mode":         mode,
			"missingItems": report.MissingItems,
		})
	}
}

// encodePhotos base64-encodes the uploaded photos in form order. The
// photo count cap is enforced with the other evidence rules in
// ValidateAndBuild.
func encodePhotos(form *multipart.Form) ([]string, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File["photos"]
	images := make([]string, 0, len(files))
	for _, header := range files {
		if header.Size > maxPhotoBytes {
			return nil, errors.New("photo exceeds the 5 MB limit")
		}
		file, err := header.Open()
		if err != nil {
			return nil, errors.New("photo could not be read")
		}
		blob, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
		file.Close()
		if err != nil || len(blob) > maxPhotoBytes {
			return nil, errors.New("photo could not be read")
		}
		images = append(images, base64.StdEncoding.EncodeToString(blob))
	}
	return images, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
