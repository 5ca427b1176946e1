package progress

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"popcheck/frontend/branch"
	"popcheck/frontend/catalog"
	"popcheck/frontend/checklist"
	"popcheck/models"
)

// ProgressQueryHandler reports completion counters for one canonical
// branch, optionally narrowed to a single category.
func ProgressQueryHandler(svc *catalog.Service, store *checklist.Store, canonical []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawBranch := r.URL.Query().Get("branch")
		canonicalLabel, ok := branch.Resolve(rawBranch, canonical)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown branch"})
			return
		}

		category := models.Category(r.URL.Query().Get("category"))
		if category != "" && !category.Valid() {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unknown category"})
			return
		}

		items := svc.ItemsForBranch(canonicalLabel, category)
		summary := Compute(items, store.IsChecked)
		writeJSON(w, http.StatusOK, map[string]any{
			"branch":   canonicalLabel,
			"ready":    svc.Ready(),
			"progress": summary,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
