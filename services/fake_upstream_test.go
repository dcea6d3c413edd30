package services

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ttms-analytics/config"
	"ttms-analytics/models"

	"github.com/goccy/go-json"
)

type row = map[string]interface{}

// fakeTTMS - тестовый веб-сервис TTMS: entity-эндпоинт и auth-admin
type fakeTTMS struct {
	mu    sync.Mutex
	calls map[string]int
	last  map[string]string // entity -> последний session_id

	adminSession     string
	periods          []row
	students         map[string][]row // ключ - AcademicPeriod.Key()
	failStudents     map[string]bool
	lecturers        []row
	lecturerSections map[string][]row
	studentSections  map[string][]row
	sectionSlots     map[string][]row // "kod_subjek:seksyen"
	rooms            []row
	roomSlots        map[string][]row
	failRooms        map[string]bool
	subjects         []row
	users            map[string]row // login -> запись authentication

	// override перехватывает запрос целиком, если вернул true
	override func(w http.ResponseWriter, r *http.Request) bool
}

func newFakeTTMS() *fakeTTMS {
	return &fakeTTMS{
		calls:            map[string]int{},
		last:             map[string]string{},
		adminSession:     "admin-token",
		students:         map[string][]row{},
		failStudents:     map[string]bool{},
		lecturerSections: map[string][]row{},
		studentSections:  map[string][]row{},
		sectionSlots:     map[string][]row{},
		roomSlots:        map[string][]row{},
		failRooms:        map[string]bool{},
		users:            map[string]row{},
	}
}

func (f *fakeTTMS) count(entity string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[entity]
}

func (f *fakeTTMS) lastSession(entity string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[entity]
}

func (f *fakeTTMS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entity := q.Get("entity")
	if strings.HasSuffix(r.URL.Path, "/auth-admin") {
		entity = "auth-admin"
	}

	f.mu.Lock()
	f.calls[entity]++
	f.last[entity] = q.Get("session_id")
	f.mu.Unlock()

	if f.override != nil && f.override(w, r) {
		return
	}

	key := q.Get("sesi") + "_" + q.Get("semester")
	switch entity {
	case "auth-admin":
		if f.adminSession == "" {
			writeRows(w, []row{})
			return
		}
		writeRows(w, []row{{"session_id": f.adminSession}})
	case "authentication":
		if u, ok := f.users[q.Get("login")]; ok && u["password"] == q.Get("password") {
			writeRows(w, []row{u})
			return
		}
		writeRows(w, []row{})
	case "sesisemester":
		writeRows(w, f.periods)
	case "pelajar":
		if f.failStudents[key] {
			http.Error(w, "upstream exploded", http.StatusInternalServerError)
			return
		}
		writeRows(w, page(f.students[key], q.Get("limit"), q.Get("offset")))
	case "pensyarah":
		writeRows(w, page(f.lecturers, q.Get("limit"), q.Get("offset")))
	case "ruang":
		writeRows(w, page(f.rooms, q.Get("limit"), q.Get("offset")))
	case "subjek":
		writeRows(w, f.subjects)
	case "pensyarah_subjek":
		writeRows(w, f.lecturerSections[q.Get("no_pekerja")])
	case "pelajar_subjek":
		writeRows(w, f.studentSections[q.Get("no_matrik")])
	case "jadual_subjek":
		writeRows(w, f.sectionSlots[q.Get("kod_subjek")+":"+q.Get("seksyen")])
	case "jadual_ruang":
		if f.failRooms[q.Get("kod_ruang")] {
			http.Error(w, "room schedule unavailable", http.StatusBadGateway)
			return
		}
		writeRows(w, f.roomSlots[q.Get("kod_ruang")])
	default:
		http.Error(w, "unknown entity", http.StatusBadRequest)
	}
}

func page(rows []row, limitParam, offsetParam string) []row {
	limit, err := strconv.Atoi(limitParam)
	if err != nil {
		return rows
	}
	offset, _ := strconv.Atoi(offsetParam)
	if offset >= len(rows) {
		return []row{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func writeRows(w http.ResponseWriter, rows []row) {
	if rows == nil {
		rows = []row{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

// testEnv - полный набор сервисов поверх fakeTTMS
type testEnv struct {
	fake      *fakeTTMS
	server    *httptest.Server
	cache     *CacheService
	client    *UpstreamClient
	paginator *Paginator
	auth      *AuthService
	periods   *PeriodService
	subjects  *SubjectService
	students  *StudentService
	lecturers *LecturerService
	rooms     *RoomService
	analysis  *AnalysisService
}

func newTestEnv(t *testing.T, fake *fakeTTMS, pageSize, maxPages int) *testEnv {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client := NewUpstreamClient(config.UpstreamConfig{
		BaseURL:       server.URL + "/ttms",
		AdminAuthURL:  server.URL + "/auth-admin",
		Timeout:       5 * time.Second,
		PageSize:      pageSize,
		MaxPages:      maxPages,
		RatePerSecond: 1000,
		Burst:         1000,
		MaxRetries:    2,
		RetryDelay:    time.Millisecond,
	})
	cache := NewCacheService(time.Hour, time.Hour)
	paginator := NewPaginator(client, pageSize, maxPages)
	auth := NewAuthService(client, cache, time.Hour)
	periods := NewPeriodService(client, cache, time.Hour)
	subjects := NewSubjectService(client, cache, time.Hour, time.Hour)
	students := NewStudentService(paginator, auth, subjects, cache, time.Hour, time.Hour)
	lecturers := NewLecturerService(paginator, auth, subjects, cache, time.Hour, time.Hour)
	rooms := NewRoomService(paginator, auth, cache, time.Hour, time.Hour)
	analysis := NewAnalysisService(auth, periods, students, lecturers, rooms, subjects, config.AnalysisConfig{
		Concurrency:      4,
		UtilizationDays:  5,
		UtilizationHours: 8,
		SlotDuration:     50 * time.Minute,
		DefaultLimit:     10,
	})

	return &testEnv{
		fake:      fake,
		server:    server,
		cache:     cache,
		client:    client,
		paginator: paginator,
		auth:      auth,
		periods:   periods,
		subjects:  subjects,
		students:  students,
		lecturers: lecturers,
		rooms:     rooms,
		analysis:  analysis,
	}
}

var (
	testPeriod = models.AcademicPeriod{Sesi: "2024/2025", Semester: 1}
	adminCreds = models.Credentials{AdminSessionID: "admin-token"}
)

func sectionRow(code, section string, period models.AcademicPeriod) row {
	return row{"kod_subjek": code, "seksyen": section, "sesi": period.Sesi, "semester": period.Semester}
}

func slotRow(day int, masa, code, section, room, lecturer string) row {
	r := row{"hari": day, "masa": masa, "kod_subjek": code, "seksyen": section}
	if room != "" {
		r["ruang"] = row{"kod_ruang": room, "nama_ruang_singkatan": room}
	}
	if lecturer != "" {
		r["pensyarah"] = row{"nama": lecturer}
	}
	return r
}

func studentRows(n int, faculty string) []row {
	rows := make([]row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row{
			"no_matrik":    faculty + strconv.Itoa(i),
			"nama":         "Student " + strconv.Itoa(i),
			"kod_fakulti":  faculty,
			"kod_kursus":   "SECJH",
			"tahun_kursus": strconv.Itoa(i%4 + 1),
		})
	}
	return rows
}

// mondayAt - понедельник 12.10.2026 в указанное время
func mondayAt(hour, minute int) time.Time {
	return time.Date(2026, 10, 12, hour, minute, 0, 0, time.UTC)
}

func dateAt(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
