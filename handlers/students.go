package handlers

import (
	"net/http"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	students *services.StudentService
}

func NewStudentHandler(students *services.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// GetStudents - студенты периода с необязательными фильтрами
func (h *StudentHandler) GetStudents(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	creds, ok := readCredentials(c)
	if !ok {
		return
	}

	students, err := h.students.FetchAll(c.Request.Context(), period, creds)
	if err != nil {
		respondError(c, "fetch students", err)
		return
	}

	if name := c.Query("name"); name != "" {
		students = services.FilterStudentsByName(students, name)
	}
	if program := c.Query("program"); program != "" {
		students = services.FilterStudentsByProgram(students, program)
	}
	if year := c.Query("year"); year != "" {
		students = services.FilterStudentsByYear(students, year)
	}
	if faculty := c.Query("faculty"); faculty != "" {
		students = services.FilterStudentsByFaculty(students, faculty)
	}
	if status := c.Query("status"); status != "" {
		students = services.FilterStudentsByStatus(students, status)
	}

	respondList(c, students)
}

func (h *StudentHandler) GetSessions(c *gin.Context) {
	sessions, err := h.students.Sessions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "fetch student sessions", err)
		return
	}
	respondList(c, sessions)
}

func (h *StudentHandler) GetSemesters(c *gin.Context) {
	sesi := c.Query("sesi")
	if sesi == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "sesi parameter is required"})
		return
	}
	semesters, err := h.students.Semesters(c.Request.Context(), c.Param("id"), sesi)
	if err != nil {
		respondError(c, "fetch student semesters", err)
		return
	}
	respondList(c, semesters)
}

func (h *StudentHandler) GetCourses(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	courses, err := h.students.Courses(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		respondError(c, "fetch student courses", err)
		return
	}
	respondList(c, courses)
}

func (h *StudentHandler) GetTimetable(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	tt, err := h.students.Timetable(c.Request.Context(), c.Param("id"), period)
	if err != nil {
		respondError(c, "build student timetable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tt})
}

func (h *StudentHandler) GetDailyTimetable(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	daily, err := h.students.DailyTimetable(c.Request.Context(), c.Param("id"), period, c.Param("day"))
	if err != nil {
		respondError(c, "build student daily timetable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": daily})
}
