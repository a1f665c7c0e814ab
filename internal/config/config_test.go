package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.HTTP.Port)
	assert.Equal(t, "http://localhost:8080/api", cfg.FlightOps.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.FlightOps.Timeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Board.RefreshInterval)
	assert.Equal(t, "sqlite", cfg.Audit.Driver)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `
flightops:
  base_url: http://ops.internal:8080/api/
  timeout: 3s
board:
  timezone: Europe/London
cache:
  backend: memory
audit:
  driver: none
`)
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://ops.internal:8080/api", cfg.FlightOps.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 3*time.Second, cfg.FlightOps.Timeout)
	assert.Equal(t, "redis", cfg.Cache.Backend, "env wins over file")
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
	assert.Equal(t, "none", cfg.Audit.Driver)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:       App{Env: "development"},
			FlightOps: FlightOps{BaseURL: "http://ops/api"},
			Board:     Board{Timezone: "UTC"},
			Cache:     Cache{Backend: "memory"},
			Audit:     Audit{Driver: "sqlite"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty base url", func(c *Config) { c.FlightOps.BaseURL = "/" }, "base url"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "disk" }, "cache backend"},
		{"unknown audit", func(c *Config) { c.Audit.Driver = "mysql" }, "audit driver"},
		{"production without secret", func(c *Config) { c.App.Env = "production" }, "ADMIN_JWT_SECRET"},
		{"production with secret", func(c *Config) {
			c.App.Env = "production"
			c.Auth.AdminJWTSecret = "s"
		}, ""},
		{"negative refresh", func(c *Config) { c.Board.RefreshInterval = -time.Second }, "refresh interval"},
		{"bad timezone", func(c *Config) { c.Board.Timezone = "Mars/Olympus" }, "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLocation_Local(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
