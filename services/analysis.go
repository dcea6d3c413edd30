package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"ttms-analytics/config"
	"ttms-analytics/logging"
	"ttms-analytics/metrics"
	"ttms-analytics/models"

	"golang.org/x/sync/errgroup"
)

// Имена отчётов для bulk-запроса и экспорта
const (
	ReportStudentsOverYears = "students-over-years"
	ReportStudentStats      = "student-stats"
	ReportLecturerWorkload  = "lecturer-workload"
	ReportTopLecturers      = "top-lecturers"
	ReportLecturerConflicts = "lecturer-conflicts"
	ReportSectionStatistics = "section-statistics"
	ReportCourseStatistics  = "course-statistics"
	ReportTopSections       = "top-sections"
	ReportTopCourses        = "top-courses"
	ReportCourseConflicts   = "course-conflicts"
	ReportRoomClashes       = "room-clashes"
	ReportRoomUtilization   = "room-utilization"
	ReportSystemOverview    = "system-overview"
)

// ReportNames - все отчёты в порядке выдачи
var ReportNames = []string{
	ReportStudentsOverYears,
	ReportStudentStats,
	ReportLecturerWorkload,
	ReportTopLecturers,
	ReportLecturerConflicts,
	ReportSectionStatistics,
	ReportCourseStatistics,
	ReportTopSections,
	ReportTopCourses,
	ReportCourseConflicts,
	ReportRoomClashes,
	ReportRoomUtilization,
	ReportSystemOverview,
}

const (
	overviewTopN       = 5
	unknownGroup       = "Unknown"
	courseNameFallback = "No description"
)

type reportFunc func(ctx context.Context, period models.AcademicPeriod, creds models.Credentials, limit int) (interface{}, error)

// AnalysisService - агрегаты поверх репозиториев; ничего не пишет, кроме кэша
type AnalysisService struct {
	auth      *AuthService
	periods   *PeriodService
	students  *StudentService
	lecturers *LecturerService
	rooms     *RoomService
	subjects  *SubjectService
	cfg       config.AnalysisConfig
	reports   map[string]reportFunc
}

func NewAnalysisService(
	auth *AuthService,
	periods *PeriodService,
	students *StudentService,
	lecturers *LecturerService,
	rooms *RoomService,
	subjects *SubjectService,
	cfg config.AnalysisConfig,
) *AnalysisService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	s := &AnalysisService{
		auth:      auth,
		periods:   periods,
		students:  students,
		lecturers: lecturers,
		rooms:     rooms,
		subjects:  subjects,
		cfg:       cfg,
	}
	s.reports = map[string]reportFunc{
		ReportStudentsOverYears: func(ctx context.Context, _ models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.StudentsOverYears(ctx, creds)
		},
		ReportStudentStats: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.StudentStats(ctx, p, creds)
		},
		ReportLecturerWorkload: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.LecturerWorkload(ctx, p, creds)
		},
		ReportTopLecturers: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, limit int) (interface{}, error) {
			return s.TopLecturers(ctx, p, creds, limit)
		},
		ReportLecturerConflicts: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.LecturerConflicts(ctx, p, creds)
		},
		ReportSectionStatistics: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.SectionStatistics(ctx, p, creds)
		},
		ReportCourseStatistics: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.CourseStatistics(ctx, p, creds)
		},
		ReportTopSections: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, limit int) (interface{}, error) {
			return s.TopSections(ctx, p, creds, limit)
		},
		ReportTopCourses: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, limit int) (interface{}, error) {
			return s.TopCourses(ctx, p, creds, limit)
		},
		ReportCourseConflicts: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.CourseConflicts(ctx, p, creds)
		},
		ReportRoomClashes: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.RoomClashes(ctx, p, creds)
		},
		ReportRoomUtilization: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.RoomUtilization(ctx, p, creds)
		},
		ReportSystemOverview: func(ctx context.Context, p models.AcademicPeriod, creds models.Credentials, _ int) (interface{}, error) {
			return s.SystemOverview(ctx, p, creds)
		},
	}
	return s
}

// Run - один отчёт по имени
func (s *AnalysisService) Run(ctx context.Context, name string, period models.AcademicPeriod, creds models.Credentials, limit int) (interface{}, error) {
	fn, ok := s.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownReport, name)
	}
	start := time.Now()
	defer func() {
		metrics.ReportDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}()
	return fn(ctx, period, creds, limit)
}

// Bulk считает отчёты параллельно и независимо: ошибка одного
// превращается в {error: ...} под его именем и не мешает остальным.
func (s *AnalysisService) Bulk(ctx context.Context, names []string, period models.AcademicPeriod, creds models.Credentials, limit int) map[string]interface{} {
	if len(names) == 0 {
		names = ReportNames
	}

	unique := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			unique = append(unique, name)
		}
	}

	values := make([]interface{}, len(unique))
	var g errgroup.Group
	for i, name := range unique {
		i, name := i, name
		g.Go(func() error {
			value, err := s.Run(ctx, name, period, creds, limit)
			if err != nil {
				logging.Ctx(ctx).Warn().Err(err).Str("report", name).Msg("Bulk report failed")
				value = models.ReportError{Error: err.Error()}
			}
			values[i] = value
			return nil
		})
	}
	_ = g.Wait()

	results := make(map[string]interface{}, len(unique))
	for i, name := range unique {
		results[name] = values[i]
	}
	return results
}

func (s *AnalysisService) limit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	return limit
}

// eachSkipping обрабатывает элементы параллельно (не больше Concurrency одновременно).
// Упавший элемент логируется и пропускается; порядок результата - порядок items.
func eachSkipping[T, R any](ctx context.Context, limit int, report string, items []T, label func(T) string, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	ok := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := fn(gctx, item)
			if err != nil {
				metrics.ReportSkippedItems.WithLabelValues(report).Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("report", report).Str("item", label(item)).Msg("Skipping item")
				return nil
			}
			out[i] = r
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]R, 0, len(items))
	for i := range out {
		if ok[i] {
			results = append(results, out[i])
		}
	}
	return results, nil
}

// ---- Преподаватели ----

// LecturerWorkload - нагрузка всех преподавателей периода, по убыванию часов.
// Час - это уникальная пара (день, код времени).
func (s *AnalysisService) LecturerWorkload(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.WorkloadEntry, error) {
	lecturers, err := s.lecturers.FetchAll(ctx, period, creds)
	if err != nil {
		return nil, err
	}

	workload, err := eachSkipping(ctx, s.cfg.Concurrency, ReportLecturerWorkload, lecturers,
		func(l models.Lecturer) string { return l.StaffNo },
		func(ctx context.Context, l models.Lecturer) (models.WorkloadEntry, error) {
			sections, err := s.lecturers.FetchSections(ctx, l.StaffNo, period)
			if err != nil {
				return models.WorkloadEntry{}, err
			}
			slots, err := s.subjects.sectionsSchedule(ctx, period, sections)
			if err != nil {
				return models.WorkloadEntry{}, err
			}
			return buildWorkload(l, sections, slots), nil
		})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(workload, func(i, j int) bool {
		if workload[i].TotalHours != workload[j].TotalHours {
			return workload[i].TotalHours > workload[j].TotalHours
		}
		return workload[i].StaffNo < workload[j].StaffNo
	})
	return workload, nil
}

func buildWorkload(l models.Lecturer, sections []models.CourseSection, slots []models.ScheduleSlot) models.WorkloadEntry {
	entry := models.WorkloadEntry{
		StaffNo:       l.StaffNo,
		Name:          l.Name,
		TotalSections: len(sections),
		ScheduleSlots: make(map[string]models.SlotInfo),
		Courses:       make([]models.CourseRef, 0, len(sections)),
		Slots:         slots,
	}
	subjects := make(map[string]bool)
	for _, sec := range sections {
		subjects[sec.SubjectCode] = true
		entry.Courses = append(entry.Courses, models.CourseRef{Code: sec.SubjectCode, Section: sec.Section})
	}
	entry.TotalCourses = len(subjects)
	for _, slot := range slots {
		entry.ScheduleSlots[slot.SlotKey()] = slotInfo(slot)
	}
	entry.TotalHours = len(entry.ScheduleSlots)
	return entry
}

// TopLecturers - два независимых среза нагрузки: по секциям и по часам
func (s *AnalysisService) TopLecturers(ctx context.Context, period models.AcademicPeriod, creds models.Credentials, limit int) (*models.TopLecturers, error) {
	workload, err := s.LecturerWorkload(ctx, period, creds)
	if err != nil {
		return nil, err
	}
	n := s.limit(limit)

	bySections := summarize(workload)
	sort.SliceStable(bySections, func(i, j int) bool {
		if bySections[i].TotalSections != bySections[j].TotalSections {
			return bySections[i].TotalSections > bySections[j].TotalSections
		}
		return bySections[i].StaffNo < bySections[j].StaffNo
	})
	byHours := summarize(workload)

	return &models.TopLecturers{
		BySections: truncate(bySections, n),
		ByHours:    truncate(byHours, n),
	}, nil
}

// summarize сохраняет порядок workload, то есть по убыванию часов
func summarize(workload []models.WorkloadEntry) []models.LecturerSummary {
	out := make([]models.LecturerSummary, len(workload))
	for i, w := range workload {
		out[i] = models.LecturerSummary{
			StaffNo:       w.StaffNo,
			Name:          w.Name,
			TotalSections: w.TotalSections,
			TotalHours:    w.TotalHours,
		}
	}
	return out
}

// LecturerConflicts - преподаватель в двух секциях на один слот.
// Группируется полный список слотов, а не расписание, где дубли схлопываются.
func (s *AnalysisService) LecturerConflicts(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.LecturerConflict, error) {
	workload, err := s.LecturerWorkload(ctx, period, creds)
	if err != nil {
		return nil, err
	}

	conflicts := make([]models.LecturerConflict, 0)
	for _, w := range workload {
		groups, keys := groupSlots(w.Slots)
		for _, key := range keys {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			courses := make([]models.SlotInfo, len(group))
			for i, slot := range group {
				courses[i] = slotInfo(slot)
			}
			conflicts = append(conflicts, models.LecturerConflict{
				Lecturer:           models.LecturerRef{StaffNo: w.StaffNo, Name: w.Name},
				TimeSlot:           key,
				ConflictingCourses: courses,
			})
		}
	}
	return conflicts, nil
}

// groupSlots группирует слоты по "день_время"; ключи отсортированы
func groupSlots(slots []models.ScheduleSlot) (map[string][]models.ScheduleSlot, []string) {
	groups := make(map[string][]models.ScheduleSlot)
	keys := make([]string, 0)
	for _, slot := range slots {
		key := slot.SlotKey()
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], slot)
	}
	sort.Strings(keys)
	return groups, keys
}

// ---- Предметы и секции ----

// estimateStudentsPerSection - равномерная оценка: TTMS не отдаёт численность секций в subjek
func estimateStudentsPerSection(totalStudents, sections int) int {
	if sections <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalStudents) / float64(sections)))
}

func courseName(subject models.Subject) string {
	if subject.Name == "" {
		return courseNameFallback
	}
	return subject.Name
}

func sectionNumbers(count int) []string {
	sections := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		sections = append(sections, strconv.Itoa(i))
	}
	return sections
}

func (s *AnalysisService) periodSubjects(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.Subject, error) {
	if _, err := s.auth.Resolve(ctx, creds); err != nil {
		return nil, err
	}
	return s.subjects.FetchAll(ctx, period)
}

// SectionStatistics - секции 1..N каждого предмета с оценкой численности, по убыванию
func (s *AnalysisService) SectionStatistics(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.SectionStat, error) {
	subjects, err := s.periodSubjects(ctx, period, creds)
	if err != nil {
		return nil, err
	}

	stats := make([]models.SectionStat, 0)
	for _, subject := range subjects {
		if subject.SectionCount <= 0 {
			continue
		}
		perSection := estimateStudentsPerSection(subject.StudentCount, subject.SectionCount)
		for _, section := range sectionNumbers(subject.SectionCount) {
			stats = append(stats, models.SectionStat{
				SubjectCode:  subject.Code,
				Section:      section,
				StudentCount: perSection,
				CourseName:   courseName(subject),
			})
		}
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].StudentCount > stats[j].StudentCount
	})
	return stats, nil
}

// CourseStatistics - предметы периода по убыванию числа студентов
func (s *AnalysisService) CourseStatistics(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.CourseStat, error) {
	subjects, err := s.periodSubjects(ctx, period, creds)
	if err != nil {
		return nil, err
	}

	stats := make([]models.CourseStat, 0, len(subjects))
	for _, subject := range subjects {
		stats = append(stats, models.CourseStat{
			SubjectCode:   subject.Code,
			CourseName:    courseName(subject),
			TotalStudents: subject.StudentCount,
			Sections:      sectionNumbers(subject.SectionCount),
			SectionCount:  subject.SectionCount,
			LecturerCount: subject.LecturerCount,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalStudents > stats[j].TotalStudents
	})
	return stats, nil
}

func (s *AnalysisService) TopSections(ctx context.Context, period models.AcademicPeriod, creds models.Credentials, limit int) ([]models.SectionStat, error) {
	stats, err := s.SectionStatistics(ctx, period, creds)
	if err != nil {
		return nil, err
	}
	top := truncate(stats, s.limit(limit))
	for i := range top {
		top[i].CourseName = ""
	}
	return top, nil
}

func (s *AnalysisService) TopCourses(ctx context.Context, period models.AcademicPeriod, creds models.Credentials, limit int) ([]models.CourseStat, error) {
	stats, err := s.CourseStatistics(ctx, period, creds)
	if err != nil {
		return nil, err
	}
	return truncate(stats, s.limit(limit)), nil
}

// CourseConflicts - предметы с несколькими секциями (не пересечения расписания)
func (s *AnalysisService) CourseConflicts(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.MultiSectionCourse, error) {
	stats, err := s.CourseStatistics(ctx, period, creds)
	if err != nil {
		return nil, err
	}

	courses := make([]models.MultiSectionCourse, 0)
	for _, c := range stats {
		if c.SectionCount <= 1 {
			continue
		}
		courses = append(courses, models.MultiSectionCourse{
			SubjectCode:   c.SubjectCode,
			CourseName:    c.CourseName,
			TotalSections: c.SectionCount,
			TotalStudents: c.TotalStudents,
			Sections:      c.Sections,
			LecturerCount: c.LecturerCount,
		})
	}
	return courses, nil
}

// ---- Аудитории ----

type roomSchedule struct {
	room  models.Room
	slots []models.ScheduleSlot
}

func (s *AnalysisService) roomSchedules(ctx context.Context, report string, period models.AcademicPeriod, creds models.Credentials) ([]roomSchedule, error) {
	rooms, err := s.rooms.FetchAll(ctx, period, creds, "")
	if err != nil {
		return nil, err
	}
	return eachSkipping(ctx, s.cfg.Concurrency, report, rooms,
		func(r models.Room) string { return r.Code },
		func(ctx context.Context, r models.Room) (roomSchedule, error) {
			slots, err := s.rooms.FetchSchedule(ctx, r.Code, period)
			if err != nil {
				return roomSchedule{}, err
			}
			return roomSchedule{room: r, slots: slots}, nil
		})
}

// RoomClashes - разные брони одной аудитории на один слот
func (s *AnalysisService) RoomClashes(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.RoomClash, error) {
	schedules, err := s.roomSchedules(ctx, ReportRoomClashes, period, creds)
	if err != nil {
		return nil, err
	}

	clashes := make([]models.RoomClash, 0)
	for _, rs := range schedules {
		groups, keys := groupSlots(rs.slots)
		for _, key := range keys {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			sessions := make([]models.ClashSession, len(group))
			for i, slot := range group {
				lecturer := slot.LecturerName
				if lecturer == "" {
					lecturer = unknownGroup
				}
				sessions[i] = models.ClashSession{Subject: slot.SubjectCode, Section: slot.Section, Lecturer: lecturer}
			}
			clashes = append(clashes, models.RoomClash{
				Room:                models.RoomRef{Code: rs.room.Code, Name: rs.room.DisplayName()},
				TimeSlot:            key,
				ConflictingSessions: sessions,
			})
		}
	}
	return clashes, nil
}

// utilizationRate - процент занятости, не больше 100, два знака после запятой
func utilizationRate(occupied, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := math.Min(float64(occupied)/float64(total)*100, 100)
	return math.Round(rate*100) / 100
}

// RoomUtilization - занятость аудиторий относительно фиксированной недельной сетки
func (s *AnalysisService) RoomUtilization(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) ([]models.RoomUtilization, error) {
	schedules, err := s.roomSchedules(ctx, ReportRoomUtilization, period, creds)
	if err != nil {
		return nil, err
	}

	total := s.cfg.WeeklySlots()
	utilization := make([]models.RoomUtilization, 0, len(schedules))
	for _, rs := range schedules {
		occupied := len(rs.slots)
		utilization = append(utilization, models.RoomUtilization{
			RoomCode:        rs.room.Code,
			RoomName:        rs.room.DisplayName(),
			TotalSlots:      total,
			OccupiedSlots:   occupied,
			UtilizationRate: utilizationRate(occupied, total),
		})
	}
	sort.SliceStable(utilization, func(i, j int) bool {
		if utilization[i].UtilizationRate != utilization[j].UtilizationRate {
			return utilization[i].UtilizationRate > utilization[j].UtilizationRate
		}
		return utilization[i].RoomCode < utilization[j].RoomCode
	})
	return utilization, nil
}

// ---- Студенты ----

type breakdown struct {
	faculties  []models.NamedCount
	programs   []models.NamedCount
	yearLevels []models.NamedCount
}

func studentBreakdown(students []models.Student) breakdown {
	faculties := make(map[string]int)
	programs := make(map[string]int)
	years := make(map[string]int)
	for _, st := range students {
		faculties[orUnknown(st.FacultyCode)]++
		programs[orUnknown(st.ProgramCode)]++
		years["Year "+orUnknown(st.YearLevel)]++
	}
	return breakdown{
		faculties:  namedCounts(faculties),
		programs:   namedCounts(programs),
		yearLevels: namedCounts(years),
	}
}

func orUnknown(value string) string {
	if value == "" {
		return unknownGroup
	}
	return value
}

// namedCounts - по убыванию количества, при равенстве по имени
func namedCounts(counts map[string]int) []models.NamedCount {
	out := make([]models.NamedCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, models.NamedCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func periodBreakdown(period models.AcademicPeriod, students []models.Student) models.StudentBreakdown {
	b := studentBreakdown(students)
	return models.StudentBreakdown{
		Year:          period.Sesi,
		Semester:      period.Semester,
		TotalStudents: len(students),
		Faculties:     b.faculties,
		Programs:      b.programs,
		YearLevels:    b.yearLevels,
	}
}

// StudentsOverYears - разбивка студентов по каждому известному периоду.
// Период, который не удалось загрузить, пропускается.
func (s *AnalysisService) StudentsOverYears(ctx context.Context, creds models.Credentials) ([]models.StudentBreakdown, error) {
	adminSessionID, err := s.auth.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	resolved := models.Credentials{AdminSessionID: adminSessionID}

	periods, err := s.periods.AllPeriods(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := eachSkipping(ctx, s.cfg.Concurrency, ReportStudentsOverYears, periods,
		func(p models.SessionPeriod) string { return p.Period().String() },
		func(ctx context.Context, p models.SessionPeriod) (models.StudentBreakdown, error) {
			students, err := s.students.FetchAll(ctx, p.Period(), resolved)
			if err != nil {
				return models.StudentBreakdown{}, err
			}
			return periodBreakdown(p.Period(), students), nil
		})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Year != summaries[j].Year {
			return summaries[i].Year > summaries[j].Year
		}
		return summaries[i].Semester > summaries[j].Semester
	})
	return summaries, nil
}

// StudentStats - та же разбивка для одного периода; ошибка загрузки возвращается как есть
func (s *AnalysisService) StudentStats(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) (*models.StudentBreakdown, error) {
	students, err := s.students.FetchAll(ctx, period, creds)
	if err != nil {
		return nil, err
	}
	stats := periodBreakdown(period, students)
	return &stats, nil
}

// ---- Обзор ----

// SystemOverview собирает студентов, преподавателей, аудитории, секции и загрузку параллельно
func (s *AnalysisService) SystemOverview(ctx context.Context, period models.AcademicPeriod, creds models.Credentials) (*models.SystemOverview, error) {
	adminSessionID, err := s.auth.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	resolved := models.Credentials{AdminSessionID: adminSessionID}

	var (
		students    []models.Student
		lecturers   []models.Lecturer
		rooms       []models.Room
		sections    []models.SectionStat
		utilization []models.RoomUtilization
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.students.FetchAll(gctx, period, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		lecturers, err = s.lecturers.FetchAll(gctx, period, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = s.rooms.FetchAll(gctx, period, resolved, "")
		return err
	})
	g.Go(func() error {
		var err error
		sections, err = s.SectionStatistics(gctx, period, resolved)
		return err
	})
	g.Go(func() error {
		var err error
		utilization, err = s.RoomUtilization(gctx, period, resolved)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := studentBreakdown(students)
	return &models.SystemOverview{
		Period: period,
		Summary: models.OverviewSummary{
			TotalStudents:  len(students),
			TotalLecturers: len(lecturers),
			TotalRooms:     len(rooms),
			TotalSections:  len(sections),
		},
		FacultyBreakdown:   b.faculties,
		ProgramBreakdown:   b.programs,
		YearLevelBreakdown: b.yearLevels,
		TopStats: models.OverviewTopStats{
			TopSections:      truncate(sections, overviewTopN),
			TopUtilizedRooms: truncate(utilization, overviewTopN),
		},
	}, nil
}

func truncate[T any](items []T, n int) []T {
	if n < len(items) {
		return items[:n]
	}
	return items
}
