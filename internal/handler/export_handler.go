package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/school-portal/admin-api/internal/service"
	"github.com/school-portal/admin-api/pkg/response"
)

// ExportHandler exposes list export endpoints.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Users godoc
// @Summary Export users as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/users [get]
func (h *ExportHandler) Users(c *gin.Context) {
	result, err := h.exports.ExportUsers(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

// Programs godoc
// @Summary Export programs as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /exports/programs [get]
func (h *ExportHandler) Programs(c *gin.Context) {
	result, err := h.exports.ExportPrograms(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveExport(c, result)
}

func serveExport(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(200, result.ContentType, result.Data)
}
