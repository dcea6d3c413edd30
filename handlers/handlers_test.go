package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ttms-analytics/models"
	"ttms-analytics/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not json: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestReportRequiresPeriodAndCredentials(t *testing.T) {
	router := gin.New()
	h := NewAnalysisHandler(nil)
	router.GET("/analysis/course-statistics", h.Report(services.ReportCourseStatistics))
	router.GET("/analysis/students-over-years", h.Report(services.ReportStudentsOverYears))

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"no period", "/analysis/course-statistics?adminSessionId=x", models.ErrMissingParameter.Error()},
		{"bad sesi", "/analysis/course-statistics?sesi=2024&semester=1&adminSessionId=x", models.ErrMissingParameter.Error()},
		{"bad semester", "/analysis/course-statistics?sesi=2024/2025&semester=4&adminSessionId=x", models.ErrMissingParameter.Error()},
		{"no credentials", "/analysis/course-statistics?sesi=2024/2025&semester=1", models.ErrMissingCredentials.Error()},
		{"over years without credentials", "/analysis/students-over-years", models.ErrMissingCredentials.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodGet, tt.target)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := decode(t, w)["error"]; got != tt.want {
				t.Errorf("error = %v, want %q", got, tt.want)
			}
		})
	}
}

func TestReadReports(t *testing.T) {
	router := gin.New()
	var got []string
	router.GET("/", func(c *gin.Context) {
		got = readReports(c)
	})

	perform(router, http.MethodGet, "/?reports=a,b&reports=c&reports=%20,d")
	want := []string{"a", "b", "c", "d"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("readReports = %v, want %v", got, want)
	}

	perform(router, http.MethodGet, "/")
	if len(got) != 0 {
		t.Errorf("readReports without query = %v, want empty", got)
	}
}

func TestReadLimit(t *testing.T) {
	router := gin.New()
	var got int
	router.GET("/", func(c *gin.Context) {
		got = readLimit(c)
	})

	for target, want := range map[string]int{"/?limit=7": 7, "/?limit=-1": 0, "/?limit=abc": 0, "/": 0} {
		perform(router, http.MethodGet, target)
		if got != want {
			t.Errorf("%s: limit = %d, want %d", target, got, want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrMissingCredentials, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", models.ErrInvalidDay), http.StatusBadRequest},
		{models.ErrUnknownReport, http.StatusBadRequest},
		{models.ErrExportUnsupported, http.StatusBadRequest},
		{models.ErrUpstreamAuth, http.StatusUnauthorized},
		{models.ErrExportNotFound, http.StatusNotFound},
		{fmt.Errorf("students: %w", models.ErrUpstreamFetch), http.StatusBadGateway},
		{models.ErrUpstreamPagination, http.StatusBadGateway},
		{models.ErrExportNotAvailable, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestExportWithoutStorage(t *testing.T) {
	router := gin.New()
	h := NewExportHandler(services.NewReportExporter(nil, nil, "periods/%s/reports/%s/%s"))
	router.POST("/exports/:report", h.CreateExport)
	router.GET("/exports", h.GetExports)
	router.GET("/exports/download", h.GetPresignedDownloadURL)

	w := perform(router, http.MethodPost, "/exports/course-statistics?sesi=2024/2025&semester=1&adminSessionId=x")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("create status = %d, want 503", w.Code)
	}
	if w := perform(router, http.MethodGet, "/exports"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("list status = %d, want 503", w.Code)
	}
	if w := perform(router, http.MethodGet, "/exports/download"); w.Code != http.StatusBadRequest {
		t.Errorf("download without path status = %d, want 400", w.Code)
	}
}

func TestInvalidateCache(t *testing.T) {
	cache := services.NewCacheService(time.Hour, time.Hour)
	cache.Set("students:2024/2025_1", 1, time.Hour)
	cache.Set("students:2023/2024_2", 2, time.Hour)
	cache.Set("rooms:2024/2025_1", 3, time.Hour)

	router := gin.New()
	h := NewCacheHandler(cache)
	router.POST("/cache/invalidate", h.InvalidateCache)
	router.GET("/cache/stats", h.Stats)

	w := perform(router, http.MethodPost, "/cache/invalidate?pattern=students")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["cleared"]; got != float64(2) {
		t.Errorf("cleared = %v, want 2", got)
	}

	w = perform(router, http.MethodGet, "/cache/stats")
	data, _ := decode(t, w)["data"].(map[string]interface{})
	if data["items"] != float64(1) {
		t.Errorf("items = %v, want 1", data["items"])
	}
}

func TestReportsList(t *testing.T) {
	router := gin.New()
	router.GET("/analysis", NewAnalysisHandler(nil).Reports)

	body := decode(t, perform(router, http.MethodGet, "/analysis"))
	if body["count"] != float64(len(services.ReportNames)) {
		t.Errorf("count = %v, want %d", body["count"], len(services.ReportNames))
	}
}
