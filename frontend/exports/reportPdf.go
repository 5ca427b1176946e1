// Package exports renders a submitted record as a printable document.
// It consumes the engine's record shape and produces no side effects
// back into engine state.
package exports

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"popcheck/frontend/history"
	"popcheck/models"
)

// RenderReportPDF lays out one history record as an A4 page. When the
// item snapshot could not be parsed the items section carries a
// placeholder instead.
func RenderReportPDF(record models.HistoryRecord, items []history.SnapshotItem, snapshotOK bool, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("POP Reconciliation Record", false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	margin := 14.0
	contentW := pageW - 2*margin
	pdf.SetMargins(margin, margin, margin)

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(contentW, 12, "POP Reconciliation Record", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 7, "Branch: "+orDash(record.Branch), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 7, "Report date: "+orDash(record.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 7, "Printed: "+generatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")

	if record.TrackingID != "" {
		qrPNG, err := renderQRPNG(record.TrackingID, 300)
		if err != nil {
			return nil, err
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("tracking-qr", opt, bytes.NewReader(qrPNG))
		pdf.ImageOptions("tracking-qr", pageW-margin-30, margin, 30, 30, false, opt, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(pageW-margin-30, margin+31)
		pdf.CellFormat(30, 4, record.TrackingID, "", 1, "C", false, 0, "")
		pdf.SetXY(margin, margin+40)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Note", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentW, 6, orDash(record.Note), "", "L", false)

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Missing items", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(contentW, 6, orDash(record.MissingItems), "", "L", false)

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 8, "Items at submission", "", 1, "L", false, 0, "")
	if !snapshotOK {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(contentW, 6, history.SnapshotUnavailable, "", 1, "L", false, 0, "")
	} else {
		renderItemsTable(pdf, contentW, items)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderItemsTable(pdf *gofpdf.Fpdf, contentW float64, items []history.SnapshotItem) {
	nameW := contentW * 0.6
	qtyW := contentW * 0.15
	stateW := contentW - nameW - qtyW

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(nameW, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(qtyW, 7, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(stateW, 7, "Received", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		received := "no"
		if item.Checked {
			received = "yes"
		}
		pdf.CellFormat(nameW, 7, item.Item, "1", 0, "L", false, 0, "")
		pdf.CellFormat(qtyW, 7, fmt.Sprintf("%d", item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(stateW, 7, received, "1", 1, "C", false, 0, "")
	}
}

func renderQRPNG(value string, size int) ([]byte, error) {
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := png.Encode(&out, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
