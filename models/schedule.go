package models

import "time"

// ScheduleSlot - атомарная бронь: день, код времени, аудитория
type ScheduleSlot struct {
	Day          int    `json:"day"`
	DayCode      string `json:"dayCode"`
	TimeCode     string `json:"timeCode"`
	RoomCode     string `json:"roomCode,omitempty"`
	RoomName     string `json:"roomName,omitempty"`
	SubjectCode  string `json:"subjectCode"`
	Section      string `json:"section"`
	LecturerName string `json:"lecturerName,omitempty"`
}

// SlotKey - ключ группировки "день_время"
func (s ScheduleSlot) SlotKey() string {
	return s.DayCode + "_" + s.TimeCode
}

type SlotInfo struct {
	Subject  string `json:"subject"`
	Section  string `json:"section"`
	Venue    string `json:"venue,omitempty"`
	Lecturer string `json:"lecturer,omitempty"`
}

// Timetable: день -> код времени -> занятие
type Timetable map[string]map[string]SlotInfo

// Availability - результат проверки занятости на момент времени
type Availability struct {
	Key    string    `json:"key"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Slot   *SlotInfo `json:"slot,omitempty"`
}

const (
	StatusAvailable = "available"
	StatusOccupied  = "occupied"
)
