package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campus-spark/events-api/internal/service"
	appErrors "github.com/campus-spark/events-api/pkg/errors"
	"github.com/campus-spark/events-api/pkg/response"
)

// ReportHandler serves downloadable CSV and PDF reports.
type ReportHandler struct {
	exports *service.ExportService
}

// NewReportHandler creates a new handler.
func NewReportHandler(exports *service.ExportService) *ReportHandler {
	return &ReportHandler{exports: exports}
}

// EventsReport godoc
// @Summary Export event summary
// @Description One row per event with registration and feedback aggregates
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/reports/events [get]
func (h *ReportHandler) EventsReport(c *gin.Context) {
	format, err := reportFormat(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exports.EventsReport(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, result)
}

// EventRoster godoc
// @Summary Export event roster
// @Description Attendee list for one event
// @Tags Reports
// @Produce octet-stream
// @Param id path string true "Event ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/reports/events/{id}/roster [get]
func (h *ReportHandler) EventRoster(c *gin.Context) {
	format, err := reportFormat(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.exports.EventRoster(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveReport(c, result)
}

func reportFormat(c *gin.Context) (service.ReportFormat, error) {
	switch format := c.DefaultQuery("format", "csv"); format {
	case string(service.ReportFormatCSV):
		return service.ReportFormatCSV, nil
	case string(service.ReportFormatPDF):
		return service.ReportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func serveReport(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
