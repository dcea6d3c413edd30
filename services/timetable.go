package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"ttms-analytics/models"
)

// dayCodes - таблица дней TTMS: 1=воскресенье ... 7=суббота. Порядок менять нельзя.
var dayCodes = [...]string{"", "SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}

var dayNames = [...]string{"", "SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// firstSlotHour - начало первого слота, когда masa задан номером слота
const firstSlotHour = 7

// DayCode переводит индекс дня TTMS в код; вне диапазона - пустая строка
func DayCode(index int) string {
	if index < 1 || index >= len(dayCodes) {
		return ""
	}
	return dayCodes[index]
}

// ParseDay принимает код (MON), полное имя (Monday) или индекс TTMS (2)
func ParseDay(token string) (int, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if n, err := strconv.Atoi(t); err == nil {
		if DayCode(n) != "" {
			return n, nil
		}
		return 0, fmt.Errorf("%w: %s", models.ErrInvalidDay, token)
	}
	for i := 1; i < len(dayCodes); i++ {
		if t == dayCodes[i] || t == dayNames[i] {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", models.ErrInvalidDay, token)
}

func slotInfo(slot models.ScheduleSlot) models.SlotInfo {
	venue := slot.RoomName
	if venue == "" {
		venue = slot.RoomCode
	}
	if venue == "" {
		venue = "TBA"
	}
	lecturer := slot.LecturerName
	if lecturer == "" {
		lecturer = "TBA"
	}
	return models.SlotInfo{
		Subject:  slot.SubjectCode,
		Section:  slot.Section,
		Venue:    venue,
		Lecturer: lecturer,
	}
}

// BuildTimetable группирует слоты по дню, затем по коду времени.
// При совпадении слота побеждает последний; конфликты ищутся по списку слотов, не по расписанию.
func BuildTimetable(slots []models.ScheduleSlot) models.Timetable {
	tt := make(models.Timetable)
	for _, slot := range slots {
		day := slot.DayCode
		if day == "" {
			day = DayCode(slot.Day)
		}
		if day == "" {
			continue
		}
		if tt[day] == nil {
			tt[day] = make(map[string]models.SlotInfo)
		}
		tt[day][slot.TimeCode] = slotInfo(slot)
	}
	return tt
}

// DailyTimetable - расписание на один день; неизвестный день - ErrInvalidDay
func DailyTimetable(tt models.Timetable, day string) (map[string]models.SlotInfo, error) {
	index, err := ParseDay(day)
	if err != nil {
		return nil, err
	}
	daily := tt[DayCode(index)]
	if daily == nil {
		daily = map[string]models.SlotInfo{}
	}
	return daily, nil
}

// slotStart возвращает начало слота в минутах от полуночи.
// Понимает "08:00", "08:00-09:00", "0800" и номер слота ("3" -> 09:00).
func slotStart(timeCode string) (int, bool) {
	code := strings.TrimSpace(timeCode)
	if i := strings.IndexAny(code, "-–"); i > 0 {
		code = strings.TrimSpace(code[:i])
	}
	if h, m, ok := strings.Cut(code, ":"); ok {
		hours, err1 := strconv.Atoi(h)
		mins, err2 := strconv.Atoi(m)
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return hours*60 + mins, true
	}
	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, false
	}
	if len(code) == 4 {
		return (n/100)*60 + n%100, true
	}
	if n >= 1 && n <= 16 {
		return (firstSlotHour + n - 1) * 60, true
	}
	return 0, false
}

// CheckAvailability решает "занято/свободно" на момент at: занято, если at попадает
// в [начало слота, начало + duration) любого слота этого дня.
func CheckAvailability(key string, tt models.Timetable, at time.Time, duration time.Duration) models.Availability {
	result := models.Availability{Key: key, Status: models.StatusAvailable, At: at}

	daily := tt[DayCode(int(at.Weekday())+1)]
	codes := make([]string, 0, len(daily))
	for code := range daily {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	minute := at.Hour()*60 + at.Minute()
	window := int(duration / time.Minute)
	for _, code := range codes {
		start, ok := slotStart(code)
		if !ok {
			continue
		}
		if minute >= start && minute < start+window {
			info := daily[code]
			result.Status = models.StatusOccupied
			result.Slot = &info
			break
		}
	}
	return result
}
