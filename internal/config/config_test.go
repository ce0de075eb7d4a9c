package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/stargazer/internal/apod"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.Global.ShutdownTimeoutInSeconds)
	assert.Equal(t, DefaultAPIKey, cfg.APOD.APIKey)
	assert.Equal(t, apod.DefaultBaseURL, cfg.APOD.BaseURL)
	assert.Equal(t, apod.DefaultTimeout, cfg.APOD.Timeout)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 8, cfg.Cache.SizeMB)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Prefetch.Enabled)
	assert.Equal(t, DefaultPrefetchSchedule, cfg.Prefetch.Schedule)

	require.NoError(t, cfg.Validate())
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APOD_API_KEY", "secret")
	t.Setenv("APOD_TIMEOUT", "5s")
	t.Setenv("DATABASE_PATH", "/tmp/favs.db")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("PREFETCH_ENABLED", "true")
	t.Setenv("PREFETCH_AUTO_LIKE", "true")

	cfg := NewConfig()

	assert.Equal(t, int32(9090), cfg.HTTP.Port)
	assert.Equal(t, "secret", cfg.APOD.APIKey)
	assert.Equal(t, 5*time.Second, cfg.APOD.Timeout)
	assert.Equal(t, "/tmp/favs.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 0, cfg.CacheSizeMB())
	assert.True(t, cfg.Prefetch.Enabled)
	assert.True(t, cfg.Prefetch.AutoLike)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"empty host", func(c *Config) { c.HTTP.Host = "" }},
		{"empty api key", func(c *Config) { c.APOD.APIKey = "" }},
		{"relative base url", func(c *Config) { c.APOD.BaseURL = "planetary/apod" }},
		{"zero timeout", func(c *Config) { c.APOD.Timeout = 0 }},
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative cache size", func(c *Config) { c.Cache.SizeMB = -1 }},
		{"prefetch without schedule", func(c *Config) {
			c.Prefetch.Enabled = true
			c.Prefetch.Schedule = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_ReportsSectionsInOrder(t *testing.T) {
	for i := 0; i < 20; i++ {
		cfg := NewConfig()
		cfg.Log.Level = "verbose"
		cfg.Database.Path = ""
		cfg.HTTP.Port = 0

		err := cfg.Validate()
		require.Error(t, err)

		msg := err.Error()
		assert.True(t, strings.HasPrefix(msg, "http: "), msg)
		database := strings.Index(msg, "\ndatabase: ")
		log := strings.Index(msg, "\nlog: ")
		require.Positive(t, database, msg)
		assert.Greater(t, log, database, msg)
	}
}
