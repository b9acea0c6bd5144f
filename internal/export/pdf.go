package export

import (
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const (
	pdfTitleMaxRunes = 40
	pdfFont          = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	colorTitle   = rgb{30, 64, 175}
	colorHeader  = rgb{68, 114, 196}
	colorStatsBg = rgb{245, 245, 220}
	colorRowBg   = rgb{245, 245, 245}
	colorWhite   = rgb{255, 255, 255}
	colorBlack   = rgb{0, 0, 0}
)

// WritePDF renders an A4 report with a statistics table and a task table.
func WritePDF(w io.Writer, r Report) error {
	pdf := buildPDF(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func buildPDF(r Report) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Task Report", true)
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps UTF-8 input onto it.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 24)
	setText(pdf, colorTitle)
	pdf.CellFormat(0, 14, "Task Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFont, "", 10)
	setText(pdf, colorBlack)
	pdf.CellFormat(0, 6, "Generated at: "+r.formatTime(r.GeneratedAt), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	heading(pdf, "General Statistics")
	statsWidths := []float64{76, 51}
	tableHeader(pdf, statsWidths, []string{"Metric", "Value"}, "C")
	pdf.SetFont(pdfFont, "", 10)
	setFill(pdf, colorStatsBg)
	for _, s := range statRows(r.Stats) {
		pdf.CellFormat(statsWidths[0], 8, s.Metric, "1", 0, "C", true, 0, "")
		pdf.CellFormat(statsWidths[1], 8, s.Value, "1", 1, "C", true, 0, "")
	}
	pdf.Ln(10)

	heading(pdf, "Task Details")
	if len(r.Tasks) == 0 {
		pdf.SetFont(pdfFont, "", 10)
		setText(pdf, colorBlack)
		pdf.CellFormat(0, 8, "No tasks to display.", "", 1, "L", false, 0, "")
		return pdf
	}

	taskWidths := []float64{14, 94, 36, 36}
	tableHeader(pdf, taskWidths, []string{"ID", "Title", "Status", "Created"}, "L")
	pdf.SetFont(pdfFont, "", 9)
	setFill(pdf, colorRowBg)
	for _, t := range r.Tasks {
		pdf.CellFormat(taskWidths[0], 7, strconv.FormatUint(t.ID, 10), "1", 0, "L", true, 0, "")
		pdf.CellFormat(taskWidths[1], 7, tr(truncateTitle(t.Title)), "1", 0, "L", true, 0, "")
		pdf.CellFormat(taskWidths[2], 7, statusLabel(t), "1", 0, "L", true, 0, "")
		pdf.CellFormat(taskWidths[3], 7, r.formatDate(t.CreatedAt), "1", 1, "L", true, 0, "")
	}

	return pdf
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont(pdfFont, "B", 16)
	setText(pdf, colorTitle)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, labels []string, align string) {
	pdf.SetFont(pdfFont, "B", 11)
	setFill(pdf, colorHeader)
	setText(pdf, colorWhite)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 9, label, "1", ln, align, true, 0, "")
	}
	setText(pdf, colorBlack)
}

func setText(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setFill(pdf *fpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}

// truncateTitle keeps the first 40 characters and marks the cut with "...".
func truncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= pdfTitleMaxRunes {
		return title
	}
	runes := []rune(title)
	return string(runes[:pdfTitleMaxRunes]) + "..."
}
