package services

import (
	"strconv"
	"strings"

	"ttms-analytics/models"

	"github.com/goccy/go-json"
)

// flexString принимает строку или число: TTMS отдаёт коды то так, то так
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

// flexInt принимает число или строку с числом; пустое значение - 0
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

type wireStudent struct {
	MatricNo    flexString `json:"no_matrik"`
	Name        flexString `json:"nama"`
	Faculty     flexString `json:"kod_fakulti"`
	Program     flexString `json:"kod_kursus"`
	ProgramName flexString `json:"program"`
	YearLevel   flexString `json:"tahun_kursus"`
	Status      flexString `json:"status"`
	StartSesi   flexString `json:"sesi_mula"`
}

func (w wireStudent) toModel() models.Student {
	return models.Student{
		ID:           w.MatricNo.String(),
		Name:         w.Name.String(),
		FacultyCode:  w.Faculty.String(),
		ProgramCode:  w.Program.String(),
		Program:      w.ProgramName.String(),
		YearLevel:    w.YearLevel.String(),
		Status:       w.Status.String(),
		StartSession: w.StartSesi.String(),
	}
}

type wireLecturer struct {
	StaffNo      flexString `json:"no_pekerja"`
	Name         flexString `json:"nama"`
	SectionCount flexInt    `json:"bil_seksyen"`
	StudentCount flexInt    `json:"bil_pelajar"`
}

func (w wireLecturer) toModel() models.Lecturer {
	return models.Lecturer{
		StaffNo:      w.StaffNo.String(),
		Name:         w.Name.String(),
		SectionCount: int(w.SectionCount),
		StudentCount: int(w.StudentCount),
	}
}

type wireRoom struct {
	Code      flexString `json:"kod_ruang"`
	Name      flexString `json:"nama_ruang"`
	ShortName flexString `json:"nama_ruang_singkatan"`
	Building  flexString `json:"kod_bangunan"`
	Faculty   flexString `json:"kod_fakulti"`
	Capacity  flexInt    `json:"kapasiti"`
}

func (w wireRoom) toModel() models.Room {
	return models.Room{
		Code:         w.Code.String(),
		Name:         w.Name.String(),
		ShortName:    w.ShortName.String(),
		BuildingCode: w.Building.String(),
		FacultyCode:  w.Faculty.String(),
		Capacity:     int(w.Capacity),
	}
}

type wireSubject struct {
	Code          flexString `json:"kod_subjek"`
	Name          flexString `json:"nama_subjek"`
	SectionCount  flexInt    `json:"bil_seksyen"`
	StudentCount  flexInt    `json:"bil_pelajar"`
	LecturerCount flexInt    `json:"bil_pensyarah"`
}

func (w wireSubject) toModel() models.Subject {
	return models.Subject{
		Code:          w.Code.String(),
		Name:          w.Name.String(),
		SectionCount:  int(w.SectionCount),
		StudentCount:  int(w.StudentCount),
		LecturerCount: int(w.LecturerCount),
	}
}

// wireSection - строка pensyarah_subjek / pelajar_subjek
type wireSection struct {
	SubjectCode flexString `json:"kod_subjek"`
	Section     flexString `json:"seksyen"`
	SubjectName flexString `json:"nama_subjek"`
	Sesi        flexString `json:"sesi"`
	Semester    flexInt    `json:"semester"`
}

func (w wireSection) toModel() models.CourseSection {
	return models.CourseSection{
		SubjectCode: w.SubjectCode.String(),
		Section:     w.Section.String(),
		CourseName:  w.SubjectName.String(),
		Sesi:        w.Sesi.String(),
		Semester:    int(w.Semester),
	}
}

type wireSlotRoom struct {
	Code      flexString `json:"kod_ruang"`
	ShortName flexString `json:"nama_ruang_singkatan"`
}

type wireSlotLecturer struct {
	Name flexString `json:"nama"`
}

// wireSlot - строка jadual_subjek / jadual_ruang
type wireSlot struct {
	Day         flexInt           `json:"hari"`
	Time        flexString        `json:"masa"`
	SubjectCode flexString        `json:"kod_subjek"`
	Section     flexString        `json:"seksyen"`
	RoomCode    flexString        `json:"kod_ruang"`
	Room        *wireSlotRoom     `json:"ruang"`
	Lecturer    *wireSlotLecturer `json:"pensyarah"`
}

func (w wireSlot) toModel() models.ScheduleSlot {
	slot := models.ScheduleSlot{
		Day:         int(w.Day),
		DayCode:     DayCode(int(w.Day)),
		TimeCode:    w.Time.String(),
		RoomCode:    w.RoomCode.String(),
		SubjectCode: w.SubjectCode.String(),
		Section:     w.Section.String(),
	}
	if w.Room != nil {
		if slot.RoomCode == "" {
			slot.RoomCode = w.Room.Code.String()
		}
		slot.RoomName = w.Room.ShortName.String()
	}
	if w.Lecturer != nil {
		slot.LecturerName = w.Lecturer.Name.String()
	}
	return slot
}

type wirePeriod struct {
	Sesi              flexString `json:"sesi"`
	Semester          flexInt    `json:"semester"`
	SessionSemesterID flexString `json:"sesi_semester_id"`
	StartDate         flexString `json:"tarikh_mula"`
	EndDate           flexString `json:"tarikh_tamat"`
}

func (w wirePeriod) toModel() models.SessionPeriod {
	return models.SessionPeriod{
		Sesi:              w.Sesi.String(),
		Semester:          int(w.Semester),
		SessionSemesterID: w.SessionSemesterID.String(),
		StartDate:         w.StartDate.String(),
		EndDate:           w.EndDate.String(),
		Display:           models.AcademicPeriod{Sesi: w.Sesi.String(), Semester: int(w.Semester)}.String(),
	}
}

type wireSession struct {
	SessionID flexString `json:"session_id"`
	Login     flexString `json:"login"`
	Name      flexString `json:"full_name"`
	Desc      flexString `json:"description"`
}

func convert[W any, M any](in []W, fn func(W) M) []M {
	out := make([]M, 0, len(in))
	for _, w := range in {
		out = append(out, fn(w))
	}
	return out
}
