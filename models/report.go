package models

// Отчёты аналитики. Формы JSON совпадают с тем, что ожидает фронтенд.

type CourseRef struct {
	Code    string `json:"code"`
	Section string `json:"section"`
}

// WorkloadEntry - нагрузка преподавателя за период
type WorkloadEntry struct {
	StaffNo       string              `json:"staffNo"`
	Name          string              `json:"name"`
	TotalCourses  int                 `json:"totalCourses"`
	TotalSections int                 `json:"totalSections"`
	TotalHours    int                 `json:"totalHours"`
	ScheduleSlots map[string]SlotInfo `json:"scheduleSlots"`
	Courses       []CourseRef         `json:"courses"`
	Slots         []ScheduleSlot      `json:"-"`
}

type LecturerSummary struct {
	StaffNo       string `json:"staffNo"`
	Name          string `json:"name"`
	TotalSections int    `json:"totalSections"`
	TotalHours    int    `json:"totalHours"`
}

type TopLecturers struct {
	BySections []LecturerSummary `json:"bySections"`
	ByHours    []LecturerSummary `json:"byHours"`
}

type LecturerRef struct {
	StaffNo string `json:"staffNo"`
	Name    string `json:"name"`
}

// LecturerConflict - преподаватель поставлен в две секции на один слот
type LecturerConflict struct {
	Lecturer           LecturerRef `json:"lecturer"`
	TimeSlot           string      `json:"timeSlot"`
	ConflictingCourses []SlotInfo  `json:"conflictingCourses"`
}

type SectionStat struct {
	SubjectCode  string `json:"subjectCode"`
	Section      string `json:"section"`
	StudentCount int    `json:"studentCount"`
	CourseName   string `json:"courseName,omitempty"`
}

type CourseStat struct {
	SubjectCode   string   `json:"subjectCode"`
	CourseName    string   `json:"courseName"`
	TotalStudents int      `json:"totalStudents"`
	Sections      []string `json:"sections"`
	SectionCount  int      `json:"sectionCount"`
	LecturerCount int      `json:"lecturerCount"`
}

// MultiSectionCourse отдаётся в отчёте course-conflicts: предметы с несколькими секциями
type MultiSectionCourse struct {
	SubjectCode   string   `json:"subjectCode"`
	CourseName    string   `json:"courseName"`
	TotalSections int      `json:"totalSections"`
	TotalStudents int      `json:"totalStudents"`
	Sections      []string `json:"sections"`
	LecturerCount int      `json:"lecturerCount"`
}

type RoomRef struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type ClashSession struct {
	Subject  string `json:"subject"`
	Section  string `json:"section"`
	Lecturer string `json:"lecturer"`
}

type RoomClash struct {
	Room                RoomRef        `json:"room"`
	TimeSlot            string         `json:"timeSlot"`
	ConflictingSessions []ClashSession `json:"conflictingSessions"`
}

type RoomUtilization struct {
	RoomCode        string  `json:"roomCode"`
	RoomName        string  `json:"roomName"`
	TotalSlots      int     `json:"totalSlots"`
	OccupiedSlots   int     `json:"occupiedSlots"`
	UtilizationRate float64 `json:"utilizationRate"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// StudentBreakdown - группировки студентов одного периода
type StudentBreakdown struct {
	Year          string       `json:"year"`
	Semester      int          `json:"semester"`
	TotalStudents int          `json:"totalStudents"`
	Faculties     []NamedCount `json:"faculties"`
	Programs      []NamedCount `json:"programs"`
	YearLevels    []NamedCount `json:"yearLevels"`
}

type OverviewSummary struct {
	TotalStudents  int `json:"totalStudents"`
	TotalLecturers int `json:"totalLecturers"`
	TotalRooms     int `json:"totalRooms"`
	TotalSections  int `json:"totalSections"`
}

type OverviewTopStats struct {
	TopSections      []SectionStat     `json:"topSections"`
	TopUtilizedRooms []RoomUtilization `json:"topUtilizedRooms"`
}

type SystemOverview struct {
	Period             AcademicPeriod   `json:"period"`
	Summary            OverviewSummary  `json:"summary"`
	FacultyBreakdown   []NamedCount     `json:"facultyBreakdown"`
	ProgramBreakdown   []NamedCount     `json:"programBreakdown"`
	YearLevelBreakdown []NamedCount     `json:"yearLevelBreakdown"`
	TopStats           OverviewTopStats `json:"topStats"`
}

// ReportError подставляется вместо результата упавшего отчёта в bulk-запросе
type ReportError struct {
	Error string `json:"error"`
}
