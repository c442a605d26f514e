package config

import (
	"testing"
	"time"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.AppPort != "8080" || cfg.StoreDriver != DriverMemory || cfg.LogLevel != "info" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.APIRateLimit != 120 || cfg.APIRateWindow != time.Minute {
		t.Fatalf("rate limit defaults = %d/%s", cfg.APIRateLimit, cfg.APIRateWindow)
	}
	if cfg.Location != time.Local {
		t.Fatalf("location = %v", cfg.Location)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"APP_PORT":                "9090",
		"STORE_DRIVER":            "SQLite",
		"SQLITE_PATH":             "/tmp/x.db",
		"REDIS_DB":                "2",
		"TIMEZONE":                "UTC",
		"CORS_ALLOWED_ORIGINS":    "https://a.example, https://b.example,",
		"API_RATE_LIMIT":          "5",
		"API_RATE_WINDOW_SECONDS": "30",
		"SEED_SAMPLE":             "true",
		"LOG_JSON":                "true",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.StoreDriver != DriverSQLite || cfg.SQLitePath != "/tmp/x.db" || cfg.RedisDB != 2 {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Location.String() != "UTC" {
		t.Fatalf("location = %v", cfg.Location)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.APIRateLimit != 5 || cfg.APIRateWindow != 30*time.Second {
		t.Fatalf("rate = %d/%s", cfg.APIRateLimit, cfg.APIRateWindow)
	}
	if !cfg.SeedSample || !cfg.LogJSON {
		t.Fatalf("bools = %+v", cfg)
	}
}

func TestFromEnvErrors(t *testing.T) {
	cases := []map[string]string{
		{"STORE_DRIVER": "mongo"},
		{"STORE_DRIVER": "postgres"},
		{"REDIS_DB": "x"},
		{"TIMEZONE": "Mars/Olympus"},
		{"API_RATE_LIMIT": "0"},
		{"API_RATE_WINDOW_SECONDS": "-1"},
		{"WRITE_RATE_LIMIT": "0"},
		{"BOT_ADMIN_IDS": "12,abc"},
		{"BOT_ENABLED": "true"},
	}
	for _, c := range cases {
		if _, err := FromEnv(env(c)); err == nil {
			t.Errorf("expected error for %v", c)
		}
	}
}

func TestFromEnvBot(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"BOT_ENABLED":   "true",
		"BOT_TOKEN":     "123:abc",
		"BOT_ADMIN_IDS": "42, 7,",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if !cfg.BotEnabled || cfg.BotToken != "123:abc" {
		t.Fatalf("bot = %v %q", cfg.BotEnabled, cfg.BotToken)
	}
	if len(cfg.BotAdminIDs) != 2 || cfg.BotAdminIDs[0] != 42 || cfg.BotAdminIDs[1] != 7 {
		t.Fatalf("admin ids = %v", cfg.BotAdminIDs)
	}
}
