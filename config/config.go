package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	Upstream UpstreamConfig
	CacheTTL CacheTTLs
	Analysis AnalysisConfig
	Export   ExportConfig
	Warmup   WarmupConfig
}

// UpstreamConfig - параметры веб-сервиса TTMS
type UpstreamConfig struct {
	BaseURL       string
	AdminAuthURL  string
	Timeout       time.Duration
	PageSize      int
	MaxPages      int
	RatePerSecond float64
	Burst         int
	MaxRetries    int
	RetryDelay    time.Duration
	FetchTimeout  time.Duration // общая загрузка списка в кэш, не зависит от отмены запроса
}

// CacheTTLs - время жизни записей кэша по классам сущностей
type CacheTTLs struct {
	AdminSession time.Duration
	Period       time.Duration
	Students     time.Duration
	Lecturers    time.Duration
	Rooms        time.Duration
	Subjects     time.Duration
	Schedule     time.Duration
	Sections     time.Duration
}

// Default - самое длинное время жизни, используется как TTL по умолчанию go-cache
func (t CacheTTLs) Default() time.Duration {
	longest := t.Schedule
	for _, d := range []time.Duration{t.AdminSession, t.Period, t.Students, t.Lecturers, t.Rooms, t.Subjects, t.Sections} {
		if d > longest {
			longest = d
		}
	}
	return longest
}

type AnalysisConfig struct {
	Concurrency      int
	UtilizationDays  int
	UtilizationHours int
	SlotDuration     time.Duration
	DefaultLimit     int
}

// WeeklySlots - знаменатель загрузки аудиторий (5 дней * 8 часов по умолчанию)
func (a AnalysisConfig) WeeklySlots() int {
	return a.UtilizationDays * a.UtilizationHours
}

type ExportConfig struct {
	Enabled         bool
	MinIOEndpoint   string
	MinIOAccessKey  string
	MinIOSecretKey  string
	MinIOUseSSL     bool
	Bucket          string
	PathPattern     string // Паттерн пути: период, отчёт, имя файла
	PresignedURLTTL time.Duration
}

type WarmupConfig struct {
	Schedule       string
	AdminSessionID string
}

func (w WarmupConfig) Enabled() bool {
	return w.Schedule != "" && w.AdminSessionID != ""
}

func Load() *Config {
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))
	exportEnabled, _ := strconv.ParseBool(getEnv("EXPORT_ENABLED", "true"))
	rate, err := strconv.ParseFloat(getEnv("UPSTREAM_RATE_PER_SECOND", "10"), 64)
	if err != nil || rate <= 0 {
		rate = 10
	}

	return &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "json"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Upstream: UpstreamConfig{
			BaseURL:       getEnv("TTMS_API_URL", "http://web.fc.utm.my/ttms/web_man_webservice_json.cgi"),
			AdminAuthURL:  getEnv("TTMS_ADMIN_AUTH_URL", "http://web.fc.utm.my/ttms/auth-admin.php"),
			Timeout:       time.Duration(getInt("UPSTREAM_TIMEOUT_SECONDS", 10)) * time.Second,
			PageSize:      getInt("UPSTREAM_PAGE_SIZE", 900),
			MaxPages:      getInt("UPSTREAM_MAX_PAGES", 200),
			RatePerSecond: rate,
			Burst:         getInt("UPSTREAM_BURST", 5),
			MaxRetries:    getInt("UPSTREAM_MAX_RETRIES", 3),
			RetryDelay:    time.Duration(getInt("UPSTREAM_RETRY_DELAY_MS", 500)) * time.Millisecond,
			FetchTimeout:  time.Duration(getInt("UPSTREAM_FETCH_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		CacheTTL: CacheTTLs{
			AdminSession: minutes("CACHE_TTL_ADMIN_SESSION_MINUTES", 24*60),
			Period:       minutes("CACHE_TTL_PERIOD_MINUTES", 60),
			Students:     minutes("CACHE_TTL_STUDENTS_MINUTES", 30),
			Lecturers:    minutes("CACHE_TTL_LECTURERS_MINUTES", 30),
			Rooms:        minutes("CACHE_TTL_ROOMS_MINUTES", 30),
			Subjects:     minutes("CACHE_TTL_SUBJECTS_MINUTES", 30),
			Schedule:     minutes("CACHE_TTL_SCHEDULE_MINUTES", 15),
			Sections:     minutes("CACHE_TTL_SECTIONS_MINUTES", 5),
		},
		Analysis: AnalysisConfig{
			Concurrency:      getInt("ANALYSIS_CONCURRENCY", 4),
			UtilizationDays:  getInt("UTILIZATION_DAYS", 5),
			UtilizationHours: getInt("UTILIZATION_HOURS", 8),
			SlotDuration:     minutes("SLOT_DURATION_MINUTES", 50),
			DefaultLimit:     getInt("ANALYSIS_DEFAULT_LIMIT", 10),
		},
		Export: ExportConfig{
			Enabled:         exportEnabled,
			MinIOEndpoint:   getEnv("MINIO_ENDPOINT", "minio:9000"),
			MinIOAccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			MinIOSecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
			MinIOUseSSL:     useSSL,
			Bucket:          getEnv("EXPORT_BUCKET", "analysis-exports"),
			PathPattern:     getEnv("EXPORT_PATH_PATTERN", "periods/%s/reports/%s/%s"),
			PresignedURLTTL: minutes("PRESIGNED_URL_TTL_MINUTES", 15),
		},
		Warmup: WarmupConfig{
			Schedule:       getEnv("WARMUP_CRON", ""),
			AdminSessionID: getEnv("WARMUP_ADMIN_SESSION_ID", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func minutes(key string, defaultValue int) time.Duration {
	return time.Duration(getInt(key, defaultValue)) * time.Minute
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
