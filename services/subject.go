package services

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"ttms-analytics/models"
)

// SubjectService - предметы периода и расписание секций (subjek, jadual_subjek)
type SubjectService struct {
	client      *UpstreamClient
	cache       *CacheService
	subjectsTTL time.Duration
	scheduleTTL time.Duration
}

func NewSubjectService(client *UpstreamClient, cache *CacheService, subjectsTTL, scheduleTTL time.Duration) *SubjectService {
	return &SubjectService{client: client, cache: cache, subjectsTTL: subjectsTTL, scheduleTTL: scheduleTTL}
}

func periodParams(period models.AcademicPeriod) url.Values {
	params := url.Values{}
	params.Set("sesi", period.Sesi)
	params.Set("semester", strconv.Itoa(period.Semester))
	return params
}

// FetchAll - список subjek за период одним запросом
func (s *SubjectService) FetchAll(ctx context.Context, period models.AcademicPeriod) ([]models.Subject, error) {
	return getOrFetch(ctx, s.cache, "subjects:"+period.Key(), s.subjectsTTL, func(ctx context.Context) ([]models.Subject, error) {
		var rows []wireSubject
		if err := s.client.Get(ctx, "subjek", periodParams(period), &rows); err != nil {
			return nil, err
		}
		return convert(rows, wireSubject.toModel), nil
	})
}

// SectionSchedule - слоты одной секции предмета
func (s *SubjectService) SectionSchedule(ctx context.Context, period models.AcademicPeriod, subjectCode, section string) ([]models.ScheduleSlot, error) {
	key := "schedule:" + period.Key() + ":" + subjectCode + ":" + section
	return getOrFetch(ctx, s.cache, key, s.scheduleTTL, func(ctx context.Context) ([]models.ScheduleSlot, error) {
		params := periodParams(period)
		params.Set("kod_subjek", subjectCode)
		params.Set("seksyen", section)

		var rows []wireSlot
		if err := s.client.Get(ctx, "jadual_subjek", params, &rows); err != nil {
			return nil, err
		}
		slots := convert(rows, wireSlot.toModel)
		for i := range slots {
			// в jadual_subjek код предмета и секция часто не повторяются в строке
			if slots[i].SubjectCode == "" {
				slots[i].SubjectCode = subjectCode
			}
			if slots[i].Section == "" {
				slots[i].Section = section
			}
		}
		return slots, nil
	})
}

// sectionsSchedule собирает слоты всех секций по очереди
func (s *SubjectService) sectionsSchedule(ctx context.Context, period models.AcademicPeriod, sections []models.CourseSection) ([]models.ScheduleSlot, error) {
	slots := make([]models.ScheduleSlot, 0)
	for _, sec := range sections {
		sectionSlots, err := s.SectionSchedule(ctx, period, sec.SubjectCode, sec.Section)
		if err != nil {
			return nil, err
		}
		slots = append(slots, sectionSlots...)
	}
	return slots, nil
}
