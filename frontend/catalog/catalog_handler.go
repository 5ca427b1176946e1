package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/uptrace/bun"

	"popcheck/frontend/branch"
	"popcheck/frontend/checklist"
	"popcheck/infrastructure/sqlite"
	"popcheck/models"
)

// ReloadCommandHandler triggers a full catalog reload. A source
// failure answers 503 and keeps the previous catalog in place.
func ReloadCommandHandler(svc *Service, db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.LoadAll(r.Context())
		items := svc.Items()
		branches := svc.SourceBranches()

		status := "ok"
		if err != nil {
			status = "failed"
		}
		recordLoadRun(r.Context(), db, len(items), len(branches), status)

		if err != nil {
			slog.Error("catalog reload failed", slog.Any("err", err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"error": "catalog source unavailable",
				"ready": svc.Ready(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":    len(items),
			"branches": len(branches),
			"loadedAt": svc.LoadedAt().Format(time.RFC3339),
		})
	}
}

type itemView struct {
	models.CatalogItem
	Checked bool `json:"checked"`
}

// ItemsQueryHandler returns the filtered catalog for one canonical
// branch with each item's checked flag.
func ItemsQueryHandler(svc *Service, store *checklist.Store, canonical []string) http.HandlerFunc {
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
		views := make([]itemView, 0, len(items))
		for _, item := range items {
			views = append(views, itemView{CatalogItem: item, Checked: store.IsChecked(item.ID)})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"branch": canonicalLabel,
			"ready":  svc.Ready(),
			"items":  views,
		})
	}
}

// BranchesQueryHandler lists the canonical branches with their current
// expected-item counts.
func BranchesQueryHandler(svc *Service, canonical []string) http.HandlerFunc {
	type branchView struct {
		Branch    string `json:"branch"`
		ItemCount int    `json:"itemCount"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		views := make([]branchView, 0, len(canonical))
		for _, label := range canonical {
			views = append(views, branchView{
				Branch:    label,
				ItemCount: len(svc.ItemsForBranch(label, "")),
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ready":    svc.Ready(),
			"branches": views,
		})
	}
}

func recordLoadRun(ctx context.Context, db *sqlite.DB, itemCount, branchCount int, status string) {
	if db == nil {
		return
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO catalog_load_runs (item_count, branch_count, status)
VALUES (?, ?, ?)`, itemCount, branchCount, status)
		return err
	})
	if err != nil {
		slog.Error("record catalog load run failed", slog.Any("err", err))
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", slog.Any("err", err))
	}
}
