package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// utf8BOM lets spreadsheet applications detect the encoding.
const utf8BOM = "\ufeff"

// WriteCSV writes one row per task under a header row.
func WriteCSV(w io.Writer, r Report) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(taskHeaders); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, t := range r.Tasks {
		record := []string{
			strconv.FormatUint(t.ID, 10),
			t.Title,
			t.Description,
			statusLabel(t),
			assigneeLabel(t),
			r.formatTime(t.CreatedAt),
			r.formatTime(t.UpdatedAt),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}
