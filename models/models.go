package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Category identifies one of the three POP material source sheets.
type Category string

const (
	CategoryDisplay Category = "display"
	CategoryStandee Category = "standee"
	CategoryPremium Category = "premium"
)

// Categories lists all catalog categories in source order.
var Categories = []Category{CategoryDisplay, CategoryStandee, CategoryPremium}

// Valid reports whether c is one of the known catalog categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDisplay, CategoryStandee, CategoryPremium:
		return true
	}
	return false
}

// CatalogItem is one expected unit of POP material at one branch.
// Items are rebuilt wholesale on every catalog reload and never
// mutated individually.
type CatalogItem struct {
	ID       string   `json:"id"`
	Branch   string   `json:"branch"`
	Category Category `json:"category"`
	Item     string   `json:"item"`
	Qty      int      `json:"qty"`
}

// ItemID derives the stable checklist key for a (branch, item) pair.
// Whitespace runs collapse to single underscores so the same pair
// produces the same id across reloads regardless of spacing drift in
// the source sheets. Category is intentionally not part of the key;
// the central log and the local store both key on branch+item only.
func ItemID(branch, item string) string {
	parts := strings.Fields(branch)
	parts = append(parts, strings.Fields(item)...)
	return strings.Join(parts, "_")
}

// Report is a single reconciliation submission. It is built at submit
// time and not retained locally after a successful dispatch.
type Report struct {
	TrackingID   string   `json:"trackingId"`
	Branch       string   `json:"branch"`
	Date         string   `json:"date"`
	Note         string   `json:"note"`
	Images       []string `json:"images"`
	MissingItems string   `json:"missingItems"`
}

// HistoryRecord is a previously submitted report as returned by the
// central log. ItemsSnapshot is a serialized snapshot of the items and
// their checked flags at submission time; it is owned by the remote
// store and may fail to parse.
type HistoryRecord struct {
	TrackingID    string `json:"trackingId"`
	Branch        string `json:"branch"`
	Date          string `json:"date"`
	Note          string `json:"note"`
	MissingItems  string `json:"missingItems"`
	ItemsSnapshot string `json:"items"`
}

// KVEntry is one durable key-value row. Checklist state is stored as
// presence-only entries with value "true".
type KVEntry struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// SubmissionRun records the outcome of one dispatch attempt. Only the
// tracking metadata is kept locally; the report body lives in the
// central log.
type SubmissionRun struct {
	bun.BaseModel `bun:"table:submission_runs,alias:sr"`

	ID         int64     `bun:"id,pk,autoincrement"`
	TrackingID string    `bun:"tracking_id,notnull"`
	Branch     string    `bun:"branch,notnull"`
	ReportDate string    `bun:"report_date,notnull"`
	Mode       string    `bun:"mode,notnull"`
	Status     string    `bun:"status,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// CatalogLoadRun records the outcome of one full catalog reload.
type CatalogLoadRun struct {
	bun.BaseModel `bun:"table:catalog_load_runs,alias:clr"`

	ID          int64     `bun:"id,pk,autoincrement"`
	ItemCount   int       `bun:"item_count,notnull"`
	BranchCount int       `bun:"branch_count,notnull"`
	Status      string    `bun:"status,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
