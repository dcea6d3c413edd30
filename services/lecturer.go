package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"ttms-analytics/models"
)

// LecturerService - преподаватели периода, их секции и расписание
type LecturerService struct {
	paginator   *Paginator
	auth        *AuthService
	subjects    *SubjectService
	cache       *CacheService
	ttl         time.Duration
	sectionsTTL time.Duration
}

func NewLecturerService(paginator *Paginator, auth *AuthService, subjects *SubjectService, cache *CacheService, ttl, sectionsTTL time.Duration) *LecturerService {
	return &LecturerService{
		paginator:   paginator,
		auth:        auth,
		subjects:    subjects,
		cache:       cache,
		ttl:         ttl,
		sectionsTTL: sectionsTTL,
	}
}

// FetchAll - полный постраничный список преподавателей (pensyarah)
func (s *LecturerService) FetchAll(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.Lecturer, error) {
	adminSessionID, err := s.auth.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	return getOrFetch(ctx, s.cache, "lecturers:"+period.Key()+":"+sessionScope(adminSessionID), s.ttl, func(ctx context.Context) ([]models.Lecturer, error) {
		params := periodParams(period)
		params.Set("session_id", adminSessionID)
		rows, err := fetchAll[wireLecturer](ctx, s.paginator, "pensyarah", params)
		if err != nil {
			return nil, err
		}
		return convert(rows, wireLecturer.toModel), nil
	})
}

func FilterLecturersByName(lecturers []models.Lecturer, query string) []models.Lecturer {
	q := strings.ToLower(query)
	return filter(lecturers, func(l models.Lecturer) bool {
		return strings.Contains(strings.ToLower(l.Name), q)
	})
}

// FilterLecturersByStaffNo - частичное совпадение номера сотрудника
func FilterLecturersByStaffNo(lecturers []models.Lecturer, partial string) []models.Lecturer {
	return filter(lecturers, func(l models.Lecturer) bool {
		return strings.Contains(l.StaffNo, partial)
	})
}

// FetchSections - секции преподавателя за период (pensyarah_subjek отдаёт все периоды сразу)
func (s *LecturerService) FetchSections(ctx context.Context, staffNo string, period models.AcademicPeriod) ([]models.CourseSection, error) {
	all, err := getOrFetch(ctx, s.cache, "lecturer_sections:"+staffNo, s.sectionsTTL, func(ctx context.Context) ([]models.CourseSection, error) {
		params := url.Values{}
		params.Set("no_pekerja", staffNo)
		var rows []wireSection
		if err := s.subjects.client.Get(ctx, "pensyarah_subjek", params, &rows); err != nil {
			return nil, err
		}
		return convert(rows, wireSection.toModel), nil
	})
	if err != nil {
		return nil, err
	}
	return filter(all, func(sec models.CourseSection) bool {
		return sec.Sesi == period.Sesi && sec.Semester == period.Semester
	}), nil
}

// FetchSchedule - все слоты всех секций преподавателя; дубли по времени сохраняются
func (s *LecturerService) FetchSchedule(ctx context.Context, staffNo string, period models.AcademicPeriod) ([]models.ScheduleSlot, error) {
	sections, err := s.FetchSections(ctx, staffNo, period)
	if err != nil {
		return nil, err
	}
	return s.subjects.sectionsSchedule(ctx, period, sections)
}

func (s *LecturerService) Timetable(ctx context.Context, staffNo string, period models.AcademicPeriod) (models.Timetable, error) {
	slots, err := s.FetchSchedule(ctx, staffNo, period)
	if err != nil {
		return nil, err
	}
	return BuildTimetable(slots), nil
}

// Availability - свободен ли преподаватель в момент at
func (s *LecturerService) Availability(ctx context.Context, staffNo string, period models.AcademicPeriod, at time.Time, slotDuration time.Duration) (models.Availability, error) {
	tt, err := s.Timetable(ctx, staffNo, period)
	if err != nil {
		return models.Availability{}, err
	}
	return CheckAvailability(staffNo, tt, at, slotDuration), nil
}
