package services

import (
	"context"
	"strings"
	"time"

	"ttms-analytics/models"
)

// RoomService - аудитории периода и их расписание (ruang, jadual_ruang)
type RoomService struct {
	paginator   *Paginator
	auth        *AuthService
	cache       *CacheService
	ttl         time.Duration
	scheduleTTL time.Duration
}

func NewRoomService(paginator *Paginator, auth *AuthService, cache *CacheService, ttl, scheduleTTL time.Duration) *RoomService {
	return &RoomService{paginator: paginator, auth: auth, cache: cache, ttl: ttl, scheduleTTL: scheduleTTL}
}

// FetchAll - все аудитории; faculty сужает выборку на стороне TTMS
func (s *RoomService) FetchAll(ctx context.Context, period models.AcademicPeriod, creds models.Credentials, faculty string) ([]models.Room, error) {
	adminSessionID, err := s.auth.Resolve(ctx, creds)
	if err != nil {
		return nil, err
	}
	key := "rooms:" + period.Key() + ":" + sessionScope(adminSessionID)
	if faculty != "" {
		key += ":" + strings.ToUpper(faculty)
	}
	return getOrFetch(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]models.Room, error) {
		params := periodParams(period)
		params.Set("session_id", adminSessionID)
		if faculty != "" {
			params.Set("kod_fakulti", faculty)
		}
		rows, err := fetchAll[wireRoom](ctx, s.paginator, "ruang", params)
		if err != nil {
			return nil, err
		}
		return convert(rows, wireRoom.toModel), nil
	})
}

func FilterRoomsByName(rooms []models.Room, query string) []models.Room {
	q := strings.ToLower(query)
	return filter(rooms, func(r models.Room) bool {
		return strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.ShortName), q)
	})
}

// FilterRoomsByCode - частичное совпадение кода без учёта регистра
func FilterRoomsByCode(rooms []models.Room, code string) []models.Room {
	q := strings.ToUpper(code)
	return filter(rooms, func(r models.Room) bool {
		return strings.Contains(strings.ToUpper(r.Code), q)
	})
}

// FetchSchedule - все слоты аудитории за период
func (s *RoomService) FetchSchedule(ctx context.Context, roomCode string, period models.AcademicPeriod) ([]models.ScheduleSlot, error) {
	return getOrFetch(ctx, s.cache, "room_schedule:"+period.Key()+":"+roomCode, s.scheduleTTL, func(ctx context.Context) ([]models.ScheduleSlot, error) {
		params := periodParams(period)
		params.Set("kod_ruang", roomCode)
		var rows []wireSlot
		if err := s.paginator.client.Get(ctx, "jadual_ruang", params, &rows); err != nil {
			return nil, err
		}
		slots := convert(rows, wireSlot.toModel)
		for i := range slots {
			if slots[i].RoomCode == "" {
				slots[i].RoomCode = roomCode
			}
		}
		return slots, nil
	})
}

func (s *RoomService) Timetable(ctx context.Context, roomCode string, period models.AcademicPeriod) (models.Timetable, error) {
	slots, err := s.FetchSchedule(ctx, roomCode, period)
	if err != nil {
		return nil, err
	}
	return BuildTimetable(slots), nil
}

func (s *RoomService) DailyTimetable(ctx context.Context, roomCode string, period models.AcademicPeriod, day string) (map[string]models.SlotInfo, error) {
	if _, err := ParseDay(day); err != nil {
		return nil, err
	}
	tt, err := s.Timetable(ctx, roomCode, period)
	if err != nil {
		return nil, err
	}
	return DailyTimetable(tt, day)
}

// Availability - свободна ли аудитория в момент at
func (s *RoomService) Availability(ctx context.Context, roomCode string, period models.AcademicPeriod, at time.Time, slotDuration time.Duration) (models.Availability, error) {
	tt, err := s.Timetable(ctx, roomCode, period)
	if err != nil {
		return models.Availability{}, err
	}
	return CheckAvailability(roomCode, tt, at, slotDuration), nil
}
