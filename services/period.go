package services

import (
	"context"
	"time"

	"ttms-analytics/models"
)

// PeriodService - справочник сессий/семестров (sesisemester)
type PeriodService struct {
	client *UpstreamClient
	cache  *CacheService
	ttl    time.Duration
}

func NewPeriodService(client *UpstreamClient, cache *CacheService, ttl time.Duration) *PeriodService {
	return &PeriodService{client: client, cache: cache, ttl: ttl}
}

// AllPeriods возвращает все известные периоды в порядке выдачи TTMS
func (s *PeriodService) AllPeriods(ctx context.Context) ([]models.SessionPeriod, error) {
	return getOrFetch(ctx, s.cache, "periods:all", s.ttl, func(ctx context.Context) ([]models.SessionPeriod, error) {
		var rows []wirePeriod
		if err := s.client.Get(ctx, "sesisemester", nil, &rows); err != nil {
			return nil, err
		}
		return convert(rows, wirePeriod.toModel), nil
	})
}

// CurrentPeriod - период, в даты которого попадает now, иначе первый в списке
func (s *PeriodService) CurrentPeriod(ctx context.Context, now time.Time) (*models.SessionPeriod, error) {
	periods, err := s.AllPeriods(ctx)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, models.ErrUpstreamFetch
	}
	if current := findCurrent(periods, now); current != nil {
		return current, nil
	}
	first := periods[0]
	return &first, nil
}

func findCurrent(periods []models.SessionPeriod, now time.Time) *models.SessionPeriod {
	for i := range periods {
		start, err1 := parseDate(periods[i].StartDate)
		end, err2 := parseDate(periods[i].EndDate)
		if err1 != nil || err2 != nil {
			continue
		}
		if !now.Before(start) && !now.After(end.Add(24*time.Hour-time.Nanosecond)) {
			p := periods[i]
			return &p
		}
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	layouts := []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339, "02/01/2006"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
