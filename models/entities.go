package models

// Student - проекция записи pelajar на один период
type Student struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	FacultyCode  string `json:"facultyCode"`
	ProgramCode  string `json:"programCode"`
	Program      string `json:"program,omitempty"`
	YearLevel    string `json:"yearLevel"`
	Status       string `json:"status"`
	StartSession string `json:"startSession,omitempty"`
}

// Active - в TTMS пустой статус или "-" означает активного студента
func (s Student) Active() bool {
	return s.Status == "" || s.Status == "-"
}

type Lecturer struct {
	StaffNo      string `json:"staffNo"`
	Name         string `json:"name"`
	SectionCount int    `json:"sectionCount"`
	StudentCount int    `json:"studentCount"`
}

type Room struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName,omitempty"`
	BuildingCode string `json:"buildingCode,omitempty"`
	FacultyCode  string `json:"facultyCode,omitempty"`
	Capacity     int    `json:"capacity,omitempty"`
}

// DisplayName возвращает полное имя, иначе сокращённое
func (r Room) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ShortName
}

// Subject - запись subjek: предмет с количеством секций, студентов и преподавателей
type Subject struct {
	Code          string `json:"subjectCode"`
	Name          string `json:"courseName"`
	SectionCount  int    `json:"sectionCount"`
	StudentCount  int    `json:"studentCount"`
	LecturerCount int    `json:"lecturerCount"`
}

// CourseSection - секция предмета, владелец слотов расписания
type CourseSection struct {
	SubjectCode   string `json:"subjectCode"`
	Section       string `json:"section"`
	CourseName    string `json:"courseName,omitempty"`
	Sesi          string `json:"sesi,omitempty"`
	Semester      int    `json:"semester,omitempty"`
	StudentCount  int    `json:"studentCount,omitempty"`
	LecturerCount int    `json:"lecturerCount,omitempty"`
}

// User - результат entity=authentication
type User struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	SessionID   string `json:"sessionId"`
	Description string `json:"description,omitempty"`
}
