package handlers

import (
	"net/http"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exporter *services.ReportExporter
}

func NewExportHandler(exporter *services.ReportExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// CreateExport считает отчёт, выгружает xlsx и возвращает presigned URL
func (h *ExportHandler) CreateExport(c *gin.Context) {
	report := c.Param("report")
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	creds, ok := readCredentials(c)
	if !ok {
		return
	}

	urlResponse, err := h.exporter.Export(c.Request.Context(), report, period, creds, readLimit(c))
	if err != nil {
		respondError(c, "export "+report, err)
		return
	}
	c.JSON(http.StatusCreated, urlResponse)
}

// GetExports - выгрузки периода (sesi и semester) или все, если период не указан
func (h *ExportHandler) GetExports(c *gin.Context) {
	var period *models.AcademicPeriod
	if c.Query("sesi") != "" || c.Query("semester") != "" {
		p, ok := readPeriod(c)
		if !ok {
			return
		}
		period = &p
	}

	files, err := h.exporter.List(c.Request.Context(), period)
	if err != nil {
		respondError(c, "list exports", err)
		return
	}
	respondList(c, files)
}

// GetPresignedDownloadURL возвращает presigned URL для уже выгруженного файла
func (h *ExportHandler) GetPresignedDownloadURL(c *gin.Context) {
	objectPath := c.Query("path")
	if objectPath == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "path parameter is required",
		})
		return
	}

	urlResponse, err := h.exporter.Download(c.Request.Context(), objectPath)
	if err != nil {
		respondError(c, "generate download url", err)
		return
	}
	c.JSON(http.StatusOK, urlResponse)
}
