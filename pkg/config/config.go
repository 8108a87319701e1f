package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// maxRedirectDelay keeps the optional redirect pause well under the server's
// write timeout so a misconfigured REDIRECT_DELAY_MS cannot stall responses
// past the deadline.
const maxRedirectDelay = 5 * time.Second

type Config struct {
	Port          string
	AppEnv        string
	BaseURL       string
	KVDriver      string
	DatabaseURL   string
	RedisAddr     string
	GeoEndpoint   string
	GeoTimeout    time.Duration
	RedirectDelay time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:          getEnv("PORT", "8080"),
		AppEnv:        getEnv("APP_ENV", "local"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		KVDriver:      getEnv("KV_DRIVER", "sqlite"),
		DatabaseURL:   getEnv("DATABASE_URL", "file:tinylink.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		GeoEndpoint:   getEnv("GEO_ENDPOINT", "http://ip-api.com/json"),
		GeoTimeout:    time.Duration(getEnvInt("GEO_TIMEOUT_SECONDS", 3)) * time.Second,
		RedirectDelay: redirectDelay(getEnvInt("REDIRECT_DELAY_MS", 0)),
	}
}

func redirectDelay(ms int) time.Duration {
	d := time.Duration(ms) * time.Millisecond
	if d < 0 {
		return 0
	}
	if d > maxRedirectDelay {
		return maxRedirectDelay
	}
	return d
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
