// Package config provides application configuration loaded from environment
// variables with defaults and validation: messaging credentials, backend API
// credentials, session store connection parameters, logging, and the admin
// server address.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values for the bot process.
type Config struct {
	// Messaging front end
	TelegramToken string // TELEGRAM_BOT_TOKEN

	// E-commerce backend
	MoltinClientID     string        // CLIENT_ID
	MoltinClientSecret string        // CLIENT_SECRET
	MoltinBaseURL      string        // MOLTIN_BASE_URL (e.g. "https://api.moltin.com")
	HTTPTimeout        time.Duration // HTTP_TIMEOUT, per backend call
	BackendRPS         float64       // BACKEND_RPS, 0 disables rate limiting
	BackendBurst       int           // BACKEND_BURST (>= 1)

	// Session store
	RedisAddr     string // REDIS_ADDR (host:port)
	RedisPassword string // REDIS_PASSWORD
	RedisDB       int    // REDIS_DB

	// Admin server
	AdminAddr string // ADMIN_ADDR (e.g. ":8081")

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: getenv("TELEGRAM_BOT_TOKEN", ""),

		MoltinClientID:     getenv("CLIENT_ID", ""),
		MoltinClientSecret: getenv("CLIENT_SECRET", ""),
		MoltinBaseURL:      strings.TrimSuffix(getenv("MOLTIN_BASE_URL", "https://api.moltin.com"), "/"),
		HTTPTimeout:        getdur("HTTP_TIMEOUT", 30*time.Second),
		BackendRPS:         getfloat("BACKEND_RPS", 10.0),
		BackendBurst:       getint("BACKEND_BURST", 5),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		AdminAddr: getenv("ADMIN_ADDR", ":8081"),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}

	// --- validation ---
	if strings.TrimSpace(cfg.TelegramToken) == "" {
		return cfg, errors.New("TELEGRAM_BOT_TOKEN must not be empty")
	}
	if strings.TrimSpace(cfg.MoltinClientID) == "" {
		return cfg, errors.New("CLIENT_ID must not be empty")
	}
	if strings.TrimSpace(cfg.MoltinClientSecret) == "" {
		return cfg, errors.New("CLIENT_SECRET must not be empty")
	}
	if strings.TrimSpace(cfg.MoltinBaseURL) == "" {
		return cfg, errors.New("MOLTIN_BASE_URL must not be empty")
	}
	if cfg.HTTPTimeout <= 0 {
		return cfg, errors.New("HTTP_TIMEOUT must be a positive duration")
	}
	if cfg.BackendRPS < 0 {
		return cfg, errors.New("BACKEND_RPS must be >= 0")
	}
	if cfg.BackendBurst < 1 {
		return cfg, errors.New("BACKEND_BURST must be >= 1")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return cfg, errors.New("REDIS_ADDR must not be empty")
	}
	if cfg.RedisDB < 0 {
		return cfg, errors.New("REDIS_DB must be >= 0")
	}
	if strings.TrimSpace(cfg.AdminAddr) == "" {
		return cfg, errors.New("ADMIN_ADDR must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
