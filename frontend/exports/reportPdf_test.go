package exports

import (
	"bytes"
	"testing"
	"time"

	"popcheck/frontend/history"
	"popcheck/models"
)

func testRecord() models.HistoryRecord {
	return models.HistoryRecord{
		TrackingID:   "11111111-2222-3333-4444-555555555555",
		Branch:       "BranchA",
		Date:         "2026-08-28",
		Note:         "courier shorted the delivery",
		MissingItems: "Poster x1",
	}
}

func TestRenderReportPDFWithSnapshot(t *testing.T) {
	items := []history.SnapshotItem{
		{Item: "Widget", Qty: 2, Checked: true},
		{Item: "Poster", Qty: 1, Checked: false},
	}
	pdfBytes, err := RenderReportPDF(testRecord(), items, true, time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", pdfBytes[:min(8, len(pdfBytes))])
	}
}

func TestRenderReportPDFWithCorruptSnapshot(t *testing.T) {
	pdfBytes, err := RenderReportPDF(testRecord(), nil, false, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatalf("expected document despite corrupt snapshot")
	}
}

func TestRenderReportPDFWithoutTrackingID(t *testing.T) {
	record := testRecord()
	record.TrackingID = ""
	pdfBytes, err := RenderReportPDF(record, nil, false, time.Now())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(pdfBytes, []byte("%PDF")) {
		t.Fatalf("expected a PDF document")
	}
}
