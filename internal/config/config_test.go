package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"API_BASE_URL", "API_REFRESH_PATH", "SESSION_STORE", "REFRESH_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "/refresh-token", cfg.RefreshPath)
	assert.Equal(t, "sqlite", cfg.SessionStore)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.giftible.in/")
	t.Setenv("API_REFRESH_PATH", "/auth/renew")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	cfg := Load()
	assert.Equal(t, "https://api.giftible.in", cfg.APIBaseURL)
	assert.Equal(t, "/auth/renew", cfg.RefreshPath)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}
