package handlers

import (
	"net/http"
	"time"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

// TimetableHandler - справочник периодов и расписание секций предметов
type TimetableHandler struct {
	periods  *services.PeriodService
	subjects *services.SubjectService
}

func NewTimetableHandler(periods *services.PeriodService, subjects *services.SubjectService) *TimetableHandler {
	return &TimetableHandler{periods: periods, subjects: subjects}
}

func (h *TimetableHandler) GetAllSessions(c *gin.Context) {
	periods, err := h.periods.AllPeriods(c.Request.Context())
	if err != nil {
		respondError(c, "fetch sessions", err)
		return
	}
	respondList(c, periods)
}

func (h *TimetableHandler) GetCurrentSession(c *gin.Context) {
	current, err := h.periods.CurrentPeriod(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, "resolve current session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": current})
}

func (h *TimetableHandler) GetSubjects(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	subjects, err := h.subjects.FetchAll(c.Request.Context(), period)
	if err != nil {
		respondError(c, "fetch subjects", err)
		return
	}
	respondList(c, subjects)
}

// GetSectionSchedule - слоты одной секции предмета
func (h *TimetableHandler) GetSectionSchedule(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	subjectCode, section := c.Param("code"), c.Param("section")
	if subjectCode == "" || section == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "subject code and section are required"})
		return
	}
	slots, err := h.subjects.SectionSchedule(c.Request.Context(), period, subjectCode, section)
	if err != nil {
		respondError(c, "fetch section schedule", err)
		return
	}
	respondList(c, slots)
}
