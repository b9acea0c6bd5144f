package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetTasks      = "Tasks"
	sheetStatistics = "Statistics"

	headerFillColor = "4472C4"
)

var taskColumnWidths = map[string]float64{
	"A": 8,
	"B": 40,
	"C": 50,
	"D": 15,
	"E": 30,
	"F": 20,
	"G": 20,
}

type xlsxStyles struct {
	header int
	cell   int
}

// WriteXLSX writes a workbook with a Tasks sheet and a Statistics sheet.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return err
	}

	if err := f.SetSheetName("Sheet1", sheetTasks); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTaskSheet(f, styles, r); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetStatistics); err != nil {
		return fmt.Errorf("failed to create statistics sheet: %w", err)
	}
	if err := writeStatisticsSheet(f, styles, r); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFillColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return xlsxStyles{}, fmt.Errorf("failed to create header style: %w", err)
	}

	cell, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return xlsxStyles{}, fmt.Errorf("failed to create cell style: %w", err)
	}

	return xlsxStyles{header: header, cell: cell}, nil
}

func writeTaskSheet(f *excelize.File, styles xlsxStyles, r Report) error {
	if err := writeRow(f, sheetTasks, 1, styles.header, toAny(taskHeaders)); err != nil {
		return err
	}

	for i, t := range r.Tasks {
		row := []any{
			t.ID,
			t.Title,
			t.Description,
			statusLabel(t),
			assigneeLabel(t),
			r.formatTime(t.CreatedAt),
			r.formatTime(t.UpdatedAt),
		}
		if err := writeRow(f, sheetTasks, i+2, styles.cell, row); err != nil {
			return err
		}
	}

	for col, width := range taskColumnWidths {
		if err := f.SetColWidth(sheetTasks, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}

func writeStatisticsSheet(f *excelize.File, styles xlsxStyles, r Report) error {
	if err := writeRow(f, sheetStatistics, 1, styles.header, []any{"Metric", "Value"}); err != nil {
		return err
	}

	for i, s := range statRows(r.Stats) {
		if err := writeRow(f, sheetStatistics, i+2, styles.cell, []any{s.Metric, s.Value}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetStatistics, "A", "A", 25); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := f.SetColWidth(sheetStatistics, "B", "B", 15); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row, style int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to resolve cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
