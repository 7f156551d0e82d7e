package infra

// pdf.go — Access history PDF export using go-pdf/fpdf.
// Renders an A4 report with establishment header, date range, and a row per
// access record (visitor, document, entry/exit, duration).

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
)

// BuildAccessHistoryPDF renders the history rows into a PDF document and
// returns the raw bytes for download.
func BuildAccessHistoryPDF(establishmentName string, start, end time.Time, rows []dto.AccessHistoryRow) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "Access History", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, establishmentName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5,
		fmt.Sprintf("%s — %s", start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04")),
		"", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Table header ─────────────────────────────────────────────────────────
	colW := []float64{contentW * 0.28, contentW * 0.18, contentW * 0.18, contentW * 0.18, contentW * 0.18}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Visitor", "Document", "Entry", "Exit", "Duration"} {
		pdf.CellFormat(colW[i], 6, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		exit := "-"
		duration := "in progress"
		if row.ExitAt != nil {
			exit = row.ExitAt.Format("01-02 15:04")
			duration = fmt.Sprintf("%d min", row.DurationMinutes)
		}
		pdf.CellFormat(colW[0], 5, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 5, row.IdentityDocument, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 5, row.EntryAt.Format("01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[3], 5, exit, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[4], 5, duration, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	if len(rows) == 0 {
		pdf.CellFormat(contentW, 6, "No access records in the selected range.", "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render history: %w", err)
	}
	return buf.Bytes(), nil
}
