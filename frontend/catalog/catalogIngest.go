package catalog

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"popcheck/models"
)

// The source sheets are maintained by hand, so the header row is not
// guaranteed to be first. It is located by the item-column heading;
// the Thai original and its English equivalent are both accepted.
var headerAnchors = []string{"รายการ", "item"}

// Header cells carrying any of these markers are bookkeeping columns
// (running totals, tracking numbers, row numbering), not branches.
var reservedHeaderMarkers = []string{
	"รวม", "total",
	"เลขพัสดุ", "tracking",
	"รายการ", "item", "list",
	"ลำดับ", "no.",
}

// Data rows whose item name starts with one of these prefixes are
// subtotal or footer rows and carry no per-branch quantities.
var reservedRowPrefixes = []string{"รวม", "total", "เลขพัสดุ", "tracking"}

const (
	itemNameColumn   = 1
	itemNameFallback = 2
)

// Ingest parses one delimited sheet into catalog items for the given
// category and returns the branch labels registered from the header.
// Empty or malformed input and sheets without a header row yield an
// empty result, not an error; a source may legitimately be blank.
func Ingest(raw string, category models.Category) ([]models.CatalogItem, []string) {
	rows := readRows(raw)

	headerIdx := -1
	for i, row := range rows {
		if isHeaderRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	type branchCol struct {
		col   int
		label string
	}
	branchCols := make([]branchCol, 0)
	branches := make([]string, 0)
	for col, cell := range rows[headerIdx] {
		label := cleanCell(cell)
		if label == "" || isReservedHeader(label) {
			continue
		}
		branchCols = append(branchCols, branchCol{col: col, label: label})
		branches = append(branches, label)
	}

	items := make([]models.CatalogItem, 0)
	for _, row := range rows[headerIdx+1:] {
		name := itemName(row)
		if name == "" || hasReservedPrefix(name) {
			continue
		}
		for _, bc := range branchCols {
			if bc.col >= len(row) {
				continue
			}
			qty, ok := parseQty(row[bc.col])
			if !ok {
				continue
			}
			items = append(items, models.CatalogItem{
				ID:       models.ItemID(bc.label, name),
				Branch:   bc.label,
				Category: category,
				Item:     name,
				Qty:      qty,
			})
		}
	}
	return items, branches
}

// readRows tolerates ragged and partially malformed input; lines the
// CSV reader rejects are dropped rather than failing the sheet.
func readRows(raw string) [][]string {
	r := csv.NewReader(strings.NewReader(raw))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows := make([][]string, 0)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, record)
	}
	return rows
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		lower := strings.ToLower(cleanCell(cell))
		for _, anchor := range headerAnchors {
			if lower == anchor {
				return true
			}
		}
	}
	return false
}

func itemName(row []string) string {
	if len(row) > itemNameColumn {
		if name := cleanCell(row[itemNameColumn]); name != "" {
			return name
		}
	}
	if len(row) > itemNameFallback {
		return cleanCell(row[itemNameFallback])
	}
	return ""
}

func isReservedHeader(label string) bool {
	lower := strings.ToLower(label)
	for _, marker := range reservedHeaderMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func hasReservedPrefix(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range reservedRowPrefixes {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}

// parseQty accepts strictly positive integers; anything else means the
// branch has no expected units of this item and no record is created.
func parseQty(cell string) (int, bool) {
	text := strings.ReplaceAll(cleanCell(cell), ",", "")
	qty, err := strconv.Atoi(text)
	if err != nil || qty <= 0 {
		return 0, false
	}
	return qty, true
}

func cleanCell(cell string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(cell), `"`))
}
