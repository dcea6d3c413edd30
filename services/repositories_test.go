package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"ttms-analytics/models"
)

func TestStudentFilters(t *testing.T) {
	students := []models.Student{
		{ID: "A1", Name: "Aisyah Binti Ali", FacultyCode: "FC", ProgramCode: "SECJH", Program: "Software Engineering", StartSession: "2023/2024"},
		{ID: "A2", Name: "Bakar", FacultyCode: "FKE", ProgramCode: "SKEEH", Program: "Electrical", StartSession: "2022/2023", Status: "TAMAT"},
		{ID: "A3", Name: "Chong", FacultyCode: "fc", ProgramCode: "SECVH", Program: "Graphics", StartSession: "2023/2024", Status: "-"},
	}

	if got := FilterStudentsByName(students, "aisyah"); len(got) != 1 || got[0].ID != "A1" {
		t.Errorf("by name: %+v", got)
	}
	if got := FilterStudentsByProgram(students, "software"); len(got) != 1 {
		t.Errorf("by program name: %+v", got)
	}
	if got := FilterStudentsByProgram(students, "secv"); len(got) != 1 || got[0].ID != "A3" {
		t.Errorf("by program code: %+v", got)
	}
	if got := FilterStudentsByYear(students, "2023"); len(got) != 2 {
		t.Errorf("by year: %+v", got)
	}
	if got := FilterStudentsByFaculty(students, "FC"); len(got) != 2 {
		t.Errorf("by faculty: %+v", got)
	}
	if got := FilterStudentsByStatus(students, "active"); len(got) != 2 {
		t.Errorf("active: %+v", got)
	}
	if got := FilterStudentsByStatus(students, "inactive"); len(got) != 1 || got[0].ID != "A2" {
		t.Errorf("inactive: %+v", got)
	}
	if got := FilterStudentsByName(students, "nobody"); got == nil || len(got) != 0 {
		t.Errorf("no match should be an empty non-nil slice, got %#v", got)
	}
}

func TestLecturerAndRoomFilters(t *testing.T) {
	lecturers := []models.Lecturer{{StaffNo: "12345", Name: "Dr Ahmad"}, {StaffNo: "67890", Name: "Prof Siti"}}
	if got := FilterLecturersByName(lecturers, "SITI"); len(got) != 1 || got[0].StaffNo != "67890" {
		t.Errorf("lecturer by name: %+v", got)
	}
	if got := FilterLecturersByStaffNo(lecturers, "234"); len(got) != 1 || got[0].StaffNo != "12345" {
		t.Errorf("lecturer by staff no: %+v", got)
	}

	rooms := []models.Room{{Code: "N28-BK1", Name: "Bilik Kuliah 1", ShortName: "BK1"}, {Code: "N28-MP2", ShortName: "MP2"}}
	if got := FilterRoomsByName(rooms, "mp2"); len(got) != 1 || got[0].Code != "N28-MP2" {
		t.Errorf("room by short name: %+v", got)
	}
	if got := FilterRoomsByCode(rooms, "n28"); len(got) != 2 {
		t.Errorf("room by code: %+v", got)
	}
}

func TestStudentTimetableSupplements(t *testing.T) {
	fake := newFakeTTMS()
	older := models.AcademicPeriod{Sesi: "2023/2024", Semester: 2}
	fake.studentSections["A1"] = []row{
		sectionRow("SECJ1013", "01", testPeriod),
		sectionRow("SECJ1023", "02", testPeriod),
		sectionRow("SECJ0000", "01", older),
	}
	fake.sectionSlots["SECJ1013:01"] = []row{slotRow(2, "08:00-09:00", "", "", "BK1", "Dr A")}
	fake.sectionSlots["SECJ1023:02"] = []row{slotRow(3, "10:00-11:00", "SECJ1023", "02", "BK2", "Dr B")}
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()

	sessions, err := env.students.Sessions(ctx, "A1")
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 2 || sessions[0] != "2024/2025" {
		t.Errorf("sessions = %v, want newest first", sessions)
	}

	courses, err := env.students.Courses(ctx, "A1", testPeriod)
	if err != nil || len(courses) != 2 {
		t.Fatalf("courses = %v, %v", courses, err)
	}

	tt, err := env.students.Timetable(ctx, "A1", testPeriod)
	if err != nil {
		t.Fatalf("timetable: %v", err)
	}
	if got := tt["MON"]["08:00-09:00"]; got.Subject != "SECJ1013" || got.Section != "01" {
		t.Errorf("subject/section should be filled from the request: %+v", got)
	}

	if _, err := env.students.DailyTimetable(ctx, "A1", testPeriod, "funday"); !errors.Is(err, models.ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}
	// регистрации берутся из кэша
	if got := fake.count("pelajar_subjek"); got != 1 {
		t.Errorf("pelajar_subjek calls = %d, want 1", got)
	}
}

func TestRoomAvailability(t *testing.T) {
	fake := newFakeTTMS()
	fake.roomSlots["BK1"] = []row{slotRow(2, "08:00-09:00", "SECJ1013", "01", "", "Dr A")}
	env := newTestEnv(t, fake, 900, 10)

	at := mondayAt(8, 15)
	got, err := env.rooms.Availability(context.Background(), "BK1", testPeriod, at, env.analysis.cfg.SlotDuration)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusOccupied {
		t.Errorf("status = %s, want occupied", got.Status)
	}
}

func TestCurrentPeriod(t *testing.T) {
	fake := newFakeTTMS()
	fake.periods = []row{
		{"sesi": "2024/2025", "semester": 1, "tarikh_mula": "2024-10-06", "tarikh_tamat": "2025-02-15"},
		{"sesi": "2024/2025", "semester": 2, "tarikh_mula": "2025-03-09", "tarikh_tamat": "2025-07-12"},
	}
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()

	current, err := env.periods.CurrentPeriod(ctx, dateAt(2025, 7, 12))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if current.Semester != 2 {
		t.Errorf("last day of semester 2 resolved to %+v", current)
	}

	fallback, err := env.periods.CurrentPeriod(ctx, dateAt(2026, 1, 1))
	if err != nil || fallback.Semester != 1 {
		t.Errorf("outside any period should return the first, got %+v, %v", fallback, err)
	}
	if got := fake.count("sesisemester"); got != 1 {
		t.Errorf("sesisemester calls = %d, want 1", got)
	}
}

func TestCachedListsAreScopedToSession(t *testing.T) {
	fake := newFakeTTMS()
	fake.students[testPeriod.Key()] = studentRows(4, "FC")
	fake.rooms = []row{{"kod_ruang": "R1"}}
	fake.lecturers = []row{{"no_pekerja": "1001"}}
	fake.override = func(w http.ResponseWriter, r *http.Request) bool {
		if r.URL.Query().Get("session_id") == "not-a-real-token" {
			http.Error(w, "invalid session", http.StatusUnauthorized)
			return true
		}
		return false
	}
	env := newTestEnv(t, fake, 900, 10)
	ctx := context.Background()
	bogus := models.Credentials{AdminSessionID: "not-a-real-token"}

	if _, err := env.students.FetchAll(ctx, testPeriod, adminCreds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.lecturers.FetchAll(ctx, testPeriod, adminCreds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.rooms.FetchAll(ctx, testPeriod, adminCreds, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if students, err := env.students.FetchAll(ctx, testPeriod, bogus); err == nil {
		t.Errorf("bogus session got %d cached students", len(students))
	}
	if lecturers, err := env.lecturers.FetchAll(ctx, testPeriod, bogus); err == nil {
		t.Errorf("bogus session got %d cached lecturers", len(lecturers))
	}
	if rooms, err := env.rooms.FetchAll(ctx, testPeriod, bogus, ""); err == nil {
		t.Errorf("bogus session got %d cached rooms", len(rooms))
	}
	if got := fake.lastSession("pelajar"); got != "not-a-real-token" {
		t.Errorf("upstream last saw session %q, want the bogus one", got)
	}

	// та же сессия по-прежнему читает из кэша
	if _, err := env.students.FetchAll(ctx, testPeriod, adminCreds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fake.count("pelajar"); got != 2 {
		t.Errorf("pelajar calls = %d, want 2", got)
	}
}
