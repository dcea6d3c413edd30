package services

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"ttms-analytics/models"
)

// StudentService - студенты периода (pelajar, нужна админ-сессия) и их расписание
type StudentService struct {
	paginator   *Paginator
	auth        *AuthService
	subjects    *SubjectService
	cache       *CacheService
	ttl         time.Duration
	sectionsTTL time.Duration
}

func NewStudentService(paginator *Paginator, auth *AuthService, subjects *SubjectService, cache *CacheService, ttl, sectionsTTL time.Duration) *StudentService {
	return &StudentService{
		paginator:   paginator,
		auth:        auth,
		subjects:    subjects,
		cache:       cache,
		ttl:         ttl,
		sectionsTTL: sectionsTTL,
	}
}

// FetchAll - полный постраничный список студентов периода
func (s *StudentService) FetchAll(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.Student, error) {
	adminSessionID, err := s.auth.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	return getOrFetch(ctx, s.cache, "students:"+period.Key()+":"+sessionScope(adminSessionID), s.ttl, func(ctx context.Context) ([]models.Student, error) {
		params := periodParams(period)
		params.Set("session_id", adminSessionID)
		rows, err := fetchAll[wireStudent](ctx, s.paginator, "pelajar", params)
		if err != nil {
			return nil, err
		}
		return convert(rows, wireStudent.toModel), nil
	})
}

// Фильтры работают по уже загруженному списку и не ходят в TTMS

func FilterStudentsByName(students []models.Student, query string) []models.Student {
	q := strings.ToLower(query)
	return filter(students, func(s models.Student) bool {
		return strings.Contains(strings.ToLower(s.Name), q)
	})
}

func FilterStudentsByProgram(students []models.Student, program string) []models.Student {
	q := strings.ToLower(program)
	return filter(students, func(s models.Student) bool {
		return strings.Contains(strings.ToLower(s.Program), q) || strings.Contains(strings.ToLower(s.ProgramCode), q)
	})
}

// FilterStudentsByYear - префикс сессии поступления, "2023" находит "2023/2024"
func FilterStudentsByYear(students []models.Student, year string) []models.Student {
	return filter(students, func(s models.Student) bool {
		return strings.HasPrefix(s.StartSession, year)
	})
}

func FilterStudentsByFaculty(students []models.Student, faculty string) []models.Student {
	return filter(students, func(s models.Student) bool {
		return strings.EqualFold(s.FacultyCode, faculty)
	})
}

// FilterStudentsByStatus: "active" или "inactive", остальное - без фильтра
func FilterStudentsByStatus(students []models.Student, status string) []models.Student {
	switch status {
	case "active":
		return filter(students, models.Student.Active)
	case "inactive":
		return filter(students, func(s models.Student) bool { return !s.Active() })
	default:
		return students
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// registrations - все регистрации студента (pelajar_subjek)
func (s *StudentService) registrations(ctx context.Context, studentID string) ([]models.CourseSection, error) {
	return getOrFetch(ctx, s.cache, "student_sections:"+studentID, s.sectionsTTL, func(ctx context.Context) ([]models.CourseSection, error) {
		params := url.Values{}
		params.Set("no_matrik", studentID)
		var rows []wireSection
		if err := s.subjects.client.Get(ctx, "pelajar_subjek", params, &rows); err != nil {
			return nil, err
		}
		return convert(rows, wireSection.toModel), nil
	})
}

// Sessions - сессии, в которых студент был зарегистрирован, от новых к старым
func (s *StudentService) Sessions(ctx context.Context, studentID string) ([]string, error) {
	regs, err := s.registrations(ctx, studentID)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	sessions := make([]string, 0)
	for _, r := range regs {
		if r.Sesi != "" && !seen[r.Sesi] {
			seen[r.Sesi] = true
			sessions = append(sessions, r.Sesi)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sessions)))
	return sessions, nil
}

func (s *StudentService) Semesters(ctx context.Context, studentID, sesi string) ([]int, error) {
	regs, err := s.registrations(ctx, studentID)
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	semesters := make([]int, 0)
	for _, r := range regs {
		if r.Sesi == sesi && !seen[r.Semester] {
			seen[r.Semester] = true
			semesters = append(semesters, r.Semester)
		}
	}
	sort.Ints(semesters)
	return semesters, nil
}

// Courses - секции, на которые студент записан в периоде
func (s *StudentService) Courses(ctx context.Context, studentID string, period models.AcademicPeriod) ([]models.CourseSection, error) {
	regs, err := s.registrations(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return filter(regs, func(r models.CourseSection) bool {
		return r.Sesi == period.Sesi && r.Semester == period.Semester
	}), nil
}

func (s *StudentService) Timetable(ctx context.Context, studentID string, period models.AcademicPeriod) (models.Timetable, error) {
	courses, err := s.Courses(ctx, studentID, period)
	if err != nil {
		return nil, err
	}
	slots, err := s.subjects.sectionsSchedule(ctx, period, courses)
	if err != nil {
		return nil, err
	}
	return BuildTimetable(slots), nil
}

func (s *StudentService) DailyTimetable(ctx context.Context, studentID string, period models.AcademicPeriod, day string) (map[string]models.SlotInfo, error) {
	if _, err := ParseDay(day); err != nil {
		return nil, err
	}
	tt, err := s.Timetable(ctx, studentID, period)
	if err != nil {
		return nil, err
	}
	return DailyTimetable(tt, day)
}
