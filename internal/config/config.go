package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type AppConfig struct {
	// OpenWeatherAPIKey authenticates every upstream call. Required.
	OpenWeatherAPIKey string

	// OpenWeatherBaseURL is overridable so tests can point at a local server.
	OpenWeatherBaseURL string

	// UpstreamTimeout bounds each individual upstream call.
	UpstreamTimeout time.Duration

	// Search history persistence. An empty RedisAddr keeps history in memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HistoryKey    string
	HistoryLimit  int

	// Upstream health probe. A non-positive interval disables it.
	ProbeInterval time.Duration
	ProbeCity     string

	StaticDir string
	Port      string
}

// Load reads configuration from environment with sensible defaults.
func Load(log *zap.SugaredLogger) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Infow("no .env file found", "error", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")

	timeoutStr := getenvDefault("UPSTREAM_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	cfg.UpstreamTimeout = timeout

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getenvInt("REDIS_DB", 0)
	cfg.HistoryKey = getenvDefault("HISTORY_KEY", "weather:search-history")
	cfg.HistoryLimit = getenvInt("HISTORY_LIMIT", 10)

	intervalStr := getenvDefault("PROBE_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PROBE_INTERVAL: %w", err)
	}
	cfg.ProbeInterval = interval
	cfg.ProbeCity = getenvDefault("PROBE_CITY", "London")

	cfg.StaticDir = getenvDefault("STATIC_DIR", "./public")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
