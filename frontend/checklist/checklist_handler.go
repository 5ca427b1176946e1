package checklist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ToggleCommandHandler flips the received flag for one item id.
// Toggles are refused with 409 until a report date is selected.
func ToggleCommandHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "item id is required"})
			return
		}

		checked, err := store.Toggle(r.Context(), id)
		if errors.Is(err, ErrNoReportDate) {
			writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
			return
		}
		if err != nil {
			slog.Error("checklist toggle failed", slog.String("id", id), slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "could not persist check state"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "checked": checked})
	}
}

// SetDateCommandHandler selects the reporting date for this session.
func SetDateCommandHandler(store *Store) http.HandlerFunc {
	type request struct {
		Date string `json:"date"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid request body"})
			return
		}
		if err := store.SetReportDate(req.Date); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"date": req.Date})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
