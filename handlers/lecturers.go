package handlers

import (
	"net/http"
	"time"

	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type LecturerHandler struct {
	lecturers    *services.LecturerService
	slotDuration time.Duration
}

func NewLecturerHandler(lecturers *services.LecturerService, slotDuration time.Duration) *LecturerHandler {
	return &LecturerHandler{lecturers: lecturers, slotDuration: slotDuration}
}

func (h *LecturerHandler) GetLecturers(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	creds, ok := readCredentials(c)
	if !ok {
		return
	}

	lecturers, err := h.lecturers.FetchAll(c.Request.Context(), period, creds)
	if err != nil {
		respondError(c, "fetch lecturers", err)
		return
	}
	if name := c.Query("name"); name != "" {
		lecturers = services.FilterLecturersByName(lecturers, name)
	}
	if staffNo := c.Query("staffNo"); staffNo != "" {
		lecturers = services.FilterLecturersByStaffNo(lecturers, staffNo)
	}

	respondList(c, lecturers)
}

func (h *LecturerHandler) GetSections(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	sections, err := h.lecturers.FetchSections(c.Request.Context(), c.Param("staffNo"), period)
	if err != nil {
		respondError(c, "fetch lecturer sections", err)
		return
	}
	respondList(c, sections)
}

func (h *LecturerHandler) GetTimetable(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	tt, err := h.lecturers.Timetable(c.Request.Context(), c.Param("staffNo"), period)
	if err != nil {
		respondError(c, "build lecturer timetable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tt})
}

func (h *LecturerHandler) GetAvailability(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	at, ok := readTime(c)
	if !ok {
		return
	}
	availability, err := h.lecturers.Availability(c.Request.Context(), c.Param("staffNo"), period, at, h.slotDuration)
	if err != nil {
		respondError(c, "check lecturer availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": availability})
}
