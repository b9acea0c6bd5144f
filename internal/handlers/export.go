package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	apierrors "github.com/besimplit/task-tracker/internal/errors"
	"github.com/besimplit/task-tracker/internal/export"
	"github.com/besimplit/task-tracker/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler streams the task report as a downloadable file.
type ExportHandler struct {
	taskService *services.TaskService
	loc         *time.Location
	log         zerolog.Logger
}

func NewExportHandler(taskService *services.TaskService, loc *time.Location, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		taskService: taskService,
		loc:         loc,
		log:         log,
	}
}

// Export renders the report in the format named by :format (csv, xlsx, pdf).
// The document is built in memory so a rendering failure still yields a
// proper error response.
func (h *ExportHandler) Export(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	format, found := export.Lookup(c.Param("format"))
	if !found {
		apierrors.NotFound(c, "Unknown export format")
		return
	}

	data, err := h.taskService.Report(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	report := export.Report{
		Tasks:       data.Tasks,
		Stats:       data.Stats,
		GeneratedAt: data.GeneratedAt,
		Location:    h.loc,
	}

	var buf bytes.Buffer
	if err := format.Write(&buf, report); err != nil {
		respondServiceError(c, h.log, fmt.Errorf("failed to render %s report: %w", format.Name, err))
		return
	}

	h.log.Info().
		Uint64("user_id", actor.UserID).
		Str("format", format.Name).
		Int("tasks", len(report.Tasks)).
		Msg("report exported")

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.Filename(report)))
	c.Data(http.StatusOK, format.ContentType, buf.Bytes())
}
