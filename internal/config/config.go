package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	AppPort    string
	AppVersion string

	StoreDriver string
	DatabaseURL string
	SQLitePath  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWTSecret enables bearer auth on mutating routes when non-empty.
	JWTSecret string

	LogLevel string
	LogJSON  bool

	// Location decides what "today" is for overdue checks.
	Location *time.Location

	SeedFile   string
	SeedSample bool

	AllowedOrigins []string
	APIRateLimit   int
	APIRateWindow  time.Duration
	// WriteRateLimit caps mutating requests per writer per APIRateWindow.
	WriteRateLimit int

	// Ops bot; runs only when BotEnabled and BotToken is set.
	BotEnabled  bool
	BotToken    string
	BotAdminIDs []int64
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can avoid the
// process environment.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppPort:        or(getenv("APP_PORT"), "8080"),
		AppVersion:     or(getenv("APP_VERSION"), "dev"),
		StoreDriver:    strings.ToLower(or(getenv("STORE_DRIVER"), DriverMemory)),
		DatabaseURL:    getenv("DATABASE_URL"),
		SQLitePath:     or(getenv("SQLITE_PATH"), "taskboard.db"),
		RedisAddr:      getenv("REDIS_ADDR"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		JWTSecret:      getenv("JWT_SECRET"),
		LogLevel:       or(getenv("LOG_LEVEL"), "info"),
		LogJSON:        getenv("LOG_JSON") == "true",
		SeedFile:       getenv("SEED_FILE"),
		SeedSample:     getenv("SEED_SAMPLE") == "true",
		APIRateLimit:   120,
		APIRateWindow:  time.Minute,
		WriteRateLimit: 60,
		BotEnabled:     getenv("BOT_ENABLED") == "true",
		BotToken:       getenv("BOT_TOKEN"),
	}

	switch cfg.StoreDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	if v := getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.RedisDB = n
	}

	loc := time.Local
	if tz := getenv("TIMEZONE"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		loc = l
	}
	cfg.Location = loc

	// CORS origins, comma separated; empty allows all
	if v := getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	if v := getenv("API_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid API_RATE_LIMIT %q", v)
		}
		cfg.APIRateLimit = n
	}
	if v := getenv("WRITE_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid WRITE_RATE_LIMIT %q", v)
		}
		cfg.WriteRateLimit = n
	}
	if v := getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid API_RATE_WINDOW_SECONDS %q", v)
		}
		cfg.APIRateWindow = time.Duration(n) * time.Second
	}

	// Telegram user ids allowed to use the bot, comma separated
	if v := getenv("BOT_ADMIN_IDS"); v != "" {
		for _, idStr := range strings.Split(v, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid BOT_ADMIN_IDS entry %q", idStr)
			}
			cfg.BotAdminIDs = append(cfg.BotAdminIDs, id)
		}
	}
	if cfg.BotEnabled && cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_ENABLED=true requires BOT_TOKEN")
	}

	return cfg, nil
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
