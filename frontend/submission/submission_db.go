package submission

import (
	"context"
	"log/slog"

	"github.com/uptrace/bun"

	"popcheck/infrastructure/sqlite"
	"popcheck/models"
)

// recordRun keeps a local trace of dispatch attempts. Only tracking
// metadata is stored; the report body lives in the central log.
func recordRun(ctx context.Context, db *sqlite.DB, report models.Report, mode Mode, status string) {
	if db == nil {
		return
	}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO submission_runs (tracking_id, branch, report_date, mode, status)
VALUES (?, ?, ?, ?, ?)`, report.TrackingID, report.Branch, report.Date, string(mode), status)
		return err
	})
	if err != nil {
		slog.Error("record submission run failed", slog.String("trackingId", report.TrackingID), slog.Any("err", err))
	}
}
