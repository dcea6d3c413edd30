package handlers

import (
	"net/http"
	"time"

	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	rooms        *services.RoomService
	slotDuration time.Duration
}

func NewRoomHandler(rooms *services.RoomService, slotDuration time.Duration) *RoomHandler {
	return &RoomHandler{rooms: rooms, slotDuration: slotDuration}
}

func (h *RoomHandler) GetRooms(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	creds, ok := readCredentials(c)
	if !ok {
		return
	}

	rooms, err := h.rooms.FetchAll(c.Request.Context(), period, creds, c.Query("faculty"))
	if err != nil {
		respondError(c, "fetch rooms", err)
		return
	}
	if name := c.Query("name"); name != "" {
		rooms = services.FilterRoomsByName(rooms, name)
	}
	if code := c.Query("code"); code != "" {
		rooms = services.FilterRoomsByCode(rooms, code)
	}

	respondList(c, rooms)
}

func (h *RoomHandler) GetSchedule(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	slots, err := h.rooms.FetchSchedule(c.Request.Context(), c.Param("code"), period)
	if err != nil {
		respondError(c, "fetch room schedule", err)
		return
	}
	respondList(c, slots)
}

func (h *RoomHandler) GetTimetable(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	tt, err := h.rooms.Timetable(c.Request.Context(), c.Param("code"), period)
	if err != nil {
		respondError(c, "build room timetable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tt})
}

func (h *RoomHandler) GetDailyTimetable(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	daily, err := h.rooms.DailyTimetable(c.Request.Context(), c.Param("code"), period, c.Param("day"))
	if err != nil {
		respondError(c, "build room daily timetable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": daily})
}

func (h *RoomHandler) GetAvailability(c *gin.Context) {
	period, ok := readPeriod(c)
	if !ok {
		return
	}
	at, ok := readTime(c)
	if !ok {
		return
	}
	availability, err := h.rooms.Availability(c.Request.Context(), c.Param("code"), period, at, h.slotDuration)
	if err != nil {
		respondError(c, "check room availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": availability})
}
