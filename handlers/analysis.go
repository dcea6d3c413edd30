package handlers

import (
	"net/http"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct {
	analysis *services.AnalysisService
}

func NewAnalysisHandler(analysis *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

// Report - обработчик одного отчёта по имени
func (h *AnalysisHandler) Report(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var period models.AcademicPeriod
		// students-over-years считается по всем периодам
		if name != services.ReportStudentsOverYears {
			var ok bool
			if period, ok = readPeriod(c); !ok {
				return
			}
		}
		creds, ok := readCredentials(c)
		if !ok {
			return
		}

		result, err := h.analysis.Run(c.Request.Context(), name, period, creds, readLimit(c))
		if err != nil {
			respondError(c, "compute "+name, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"report": name,
			"data":   result,
		})
	}
}

// Bulk считает несколько отчётов; ошибки отдельных отчётов лежат в data
func (h *AnalysisHandler) Bulk(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	creds, ok := readCredentials(c)
	if !ok {
		return
	}

	results := h.analysis.Bulk(c.Request.Context(), readReports(c), period, creds, readLimit(c))
	c.JSON(http.StatusOK, gin.H{
		"data":  results,
		"count": len(results),
	})
}

// Reports - список доступных отчётов
func (h *AnalysisHandler) Reports(c *gin.Context) {
	respondList(c, services.ReportNames)
}
