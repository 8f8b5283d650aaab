package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired provides the minimum environment a valid config needs.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("CLIENT_ID", "cid")
	t.Setenv("CLIENT_SECRET", "csecret")
}

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("MOLTIN_BASE_URL", "https://api.example.com/") // trailing slash stripped
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("BACKEND_RPS", "x") // invalid -> default 10.0
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "warning") // normalizes to "warn"
	t.Setenv("LOG_PRETTY", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MoltinBaseURL != "https://api.example.com" {
		t.Errorf("MoltinBaseURL = %q", cfg.MoltinBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.BackendRPS != 10.0 {
		t.Errorf("BackendRPS = %v; want default on parse failure", cfg.BackendRPS)
	}
	if cfg.BackendBurst != 5 {
		t.Errorf("BackendBurst = %d; want default 5", cfg.BackendBurst)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Errorf("redis = %q/%d", cfg.RedisAddr, cfg.RedisDB)
	}
	if cfg.AdminAddr != ":8081" {
		t.Errorf("AdminAddr = %q; want default :8081", cfg.AdminAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q; want warn", cfg.LogLevel)
	}
	if !cfg.LogPretty {
		t.Errorf("LogPretty = false; want true")
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing bot token", map[string]string{"TELEGRAM_BOT_TOKEN": ""}, "TELEGRAM_BOT_TOKEN"},
		{"missing client id", map[string]string{"CLIENT_ID": ""}, "CLIENT_ID"},
		{"missing client secret", map[string]string{"CLIENT_SECRET": ""}, "CLIENT_SECRET"},
		{"zero timeout", map[string]string{"HTTP_TIMEOUT": "-1s"}, "HTTP_TIMEOUT"},
		{"negative rps", map[string]string{"BACKEND_RPS": "-1"}, "BACKEND_RPS"},
		{"zero burst", map[string]string{"BACKEND_BURST": "0"}, "BACKEND_BURST"},
		{"negative redis db", map[string]string{"REDIS_DB": "-1"}, "REDIS_DB"},
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "LOG_LEVEL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatalf("Load succeeded; want error mentioning %s", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %s", err, tc.wantErr)
			}
		})
	}
}
