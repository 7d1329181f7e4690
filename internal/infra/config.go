package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	AllowedOrigins []string
	GeoIPDBPath    string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
	ListLimit        int

	InferenceBaseURL string
	ArchivePath      string

	WorkerBatchSize       int
	WorkerPollInterval    time.Duration
	WorkerErrorBackoff    time.Duration
	WorkerConnectAttempts int
	WorkerConnectDelay    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		ListLimit:        getEnvInt("SNAPSHOT_LIST_LIMIT", 20),

		InferenceBaseURL: os.Getenv("INFERENCE_BASE_URL"),
		ArchivePath:      os.Getenv("SNAPSHOT_ARCHIVE_PATH"),

		WorkerBatchSize:       getEnvInt("WORKER_BATCH_SIZE", 10),
		WorkerPollInterval:    time.Second * time.Duration(getEnvInt("WORKER_POLL_INTERVAL_SECONDS", 2)),
		WorkerErrorBackoff:    time.Second * time.Duration(getEnvInt("WORKER_ERROR_BACKOFF_SECONDS", 5)),
		WorkerConnectAttempts: getEnvInt("WORKER_CONNECT_ATTEMPTS", 5),
		WorkerConnectDelay:    time.Second * time.Duration(getEnvInt("WORKER_CONNECT_DELAY_SECONDS", 5)),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
