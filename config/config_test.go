package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Upstream.PageSize != 900 {
		t.Errorf("PageSize = %d, want 900", cfg.Upstream.PageSize)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Upstream.Timeout)
	}
	if cfg.Upstream.FetchTimeout != 2*time.Minute {
		t.Errorf("FetchTimeout = %v, want 2m", cfg.Upstream.FetchTimeout)
	}
	if cfg.CacheTTL.Schedule != 15*time.Minute || cfg.CacheTTL.Sections != 5*time.Minute {
		t.Errorf("unexpected TTLs %+v", cfg.CacheTTL)
	}
	if cfg.CacheTTL.Default() != 24*time.Hour {
		t.Errorf("Default() = %v, want the admin session ttl", cfg.CacheTTL.Default())
	}
	if cfg.Analysis.WeeklySlots() != 40 {
		t.Errorf("WeeklySlots() = %d, want 40", cfg.Analysis.WeeklySlots())
	}
	if cfg.Warmup.Enabled() {
		t.Error("warm-up must be off without a schedule")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("UPSTREAM_PAGE_SIZE", "100")
	t.Setenv("UTILIZATION_DAYS", "6")
	t.Setenv("UTILIZATION_HOURS", "10")
	t.Setenv("CACHE_TTL_STUDENTS_MINUTES", "90")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WARMUP_CRON", "0 6 * * *")
	t.Setenv("WARMUP_ADMIN_SESSION_ID", "token")
	t.Setenv("UPSTREAM_MAX_PAGES", "-3")

	cfg := Load()

	if cfg.Upstream.PageSize != 100 {
		t.Errorf("PageSize = %d, want 100", cfg.Upstream.PageSize)
	}
	if cfg.Upstream.MaxPages != 200 {
		t.Errorf("negative MaxPages should fall back to default, got %d", cfg.Upstream.MaxPages)
	}
	if cfg.Analysis.WeeklySlots() != 60 {
		t.Errorf("WeeklySlots() = %d, want 60", cfg.Analysis.WeeklySlots())
	}
	if cfg.CacheTTL.Students != 90*time.Minute {
		t.Errorf("Students ttl = %v", cfg.CacheTTL.Students)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.Warmup.Enabled() {
		t.Error("warm-up should be enabled")
	}
}
