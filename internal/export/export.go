// Package export renders the task report as CSV, XLSX and PDF documents.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/besimplit/task-tracker/internal/constants"
	"github.com/besimplit/task-tracker/internal/models"
	"github.com/besimplit/task-tracker/internal/repository"
)

// Report is everything an exporter needs. Tasks are in store order.
type Report struct {
	Tasks       []models.Task
	Stats       repository.TaskStats
	GeneratedAt time.Time
	// Location is used for every human-formatted timestamp. Nil means UTC.
	Location *time.Location
}

// Format is one export flavour.
type Format struct {
	Name        string
	Extension   string
	ContentType string
	Write       func(w io.Writer, r Report) error
}

var (
	CSV = Format{
		Name:        "csv",
		Extension:   "csv",
		ContentType: "text/csv; charset=utf-8",
		Write:       WriteCSV,
	}
	XLSX = Format{
		Name:        "xlsx",
		Extension:   "xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Write:       WriteXLSX,
	}
	PDF = Format{
		Name:        "pdf",
		Extension:   "pdf",
		ContentType: "application/pdf",
		Write:       WritePDF,
	}
)

var formats = map[string]Format{
	CSV.Name:  CSV,
	XLSX.Name: XLSX,
	PDF.Name:  PDF,
}

// Lookup finds a format by name.
func Lookup(name string) (Format, bool) {
	f, ok := formats[name]
	return f, ok
}

// Filename returns tasks_YYYYMMDD_HHMMSS.<ext> for the report time.
func (f Format) Filename(r Report) string {
	return fmt.Sprintf("tasks_%s.%s", r.GeneratedAt.In(r.location()).Format(constants.ExportFileTimeFormat), f.Extension)
}

const (
	headerID          = "ID"
	headerTitle       = "Title"
	headerDescription = "Description"
	headerStatus      = "Status"
	headerAssignedTo  = "Assigned To"
	headerCreatedAt   = "Created At"
	headerUpdatedAt   = "Updated At"

	statusCompleted = "Completed"
	statusPending   = "Pending"
	unassigned      = "Unassigned"
)

var taskHeaders = []string{
	headerID,
	headerTitle,
	headerDescription,
	headerStatus,
	headerAssignedTo,
	headerCreatedAt,
	headerUpdatedAt,
}

func (r Report) location() *time.Location {
	if r.Location == nil {
		return time.UTC
	}
	return r.Location
}

func (r Report) formatTime(t time.Time) string {
	return t.In(r.location()).Format(constants.DisplayTimeFormat)
}

func (r Report) formatDate(t time.Time) string {
	return t.In(r.location()).Format(constants.DisplayDateFormat)
}

func statusLabel(t models.Task) string {
	if t.Completed {
		return statusCompleted
	}
	return statusPending
}

func assigneeLabel(t models.Task) string {
	if t.AssignedTo == nil {
		return unassigned
	}
	return t.AssignedTo.Email
}

type statRow struct {
	Metric string
	Value  string
}

func statRows(s repository.TaskStats) []statRow {
	return []statRow{
		{"Total Tasks", fmt.Sprintf("%d", s.Total)},
		{"Completed Tasks", fmt.Sprintf("%d", s.Completed)},
		{"Pending Tasks", fmt.Sprintf("%d", s.Pending())},
		{"Completion Percentage", fmt.Sprintf("%.2f%%", s.CompletionRate())},
	}
}
