package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"

	"github.com/mrlokans/stargazer/internal/apod"
)

type (
	Config struct {
		HTTP
		Global
		APOD
		Database
		Log
		Cache
		Metrics
		Prefetch
	}

	HTTP struct {
		Port int32  `validate:"required|min:1|max:65535"`
		Host string `validate:"required"`
	}
	Global struct {
		ShutdownTimeoutInSeconds int `validate:"min:0"`
	}
	APOD struct {
		APIKey  string `validate:"required"`
		BaseURL string `validate:"required|fullUrl"`
		Timeout time.Duration
	}
	Database struct {
		Path string `validate:"required"`
	}
	Log struct {
		Level  string `validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
		Format string `validate:"required|in:console,json"`
	}
	Cache struct {
		Enabled bool
		SizeMB  int `validate:"min:0"`
		TTL     time.Duration
	}
	Metrics struct {
		Enabled bool
	}
	Prefetch struct {
		Enabled  bool
		Schedule string
		AutoLike bool // Add every prefetched picture to favourites
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("apod_api_key", DefaultAPIKey)
	v.SetDefault("apod_base_url", apod.DefaultBaseURL)
	v.SetDefault("apod_timeout", apod.DefaultTimeout.String())
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	// Past pictures never change upstream, so a long TTL is safe.
	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_size_mb", 8)
	v.SetDefault("cache_ttl", "24h")

	v.SetDefault("metrics_enabled", true)

	v.SetDefault("prefetch_enabled", false)
	v.SetDefault("prefetch_schedule", DefaultPrefetchSchedule)
	v.SetDefault("prefetch_auto_like", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		APOD: APOD{
			APIKey:  v.GetString("APOD_API_KEY"),
			BaseURL: v.GetString("APOD_BASE_URL"),
			Timeout: v.GetDuration("APOD_TIMEOUT"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Cache: Cache{
			Enabled: v.GetBool("CACHE_ENABLED"),
			SizeMB:  v.GetInt("CACHE_SIZE_MB"),
			TTL:     v.GetDuration("CACHE_TTL"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Prefetch: Prefetch{
			Enabled:  v.GetBool("PREFETCH_ENABLED"),
			Schedule: v.GetString("PREFETCH_SCHEDULE"),
			AutoLike: v.GetBool("PREFETCH_AUTO_LIKE"),
		},
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	sections := []struct {
		name    string
		section any
	}{
		{"http", &c.HTTP},
		{"global", &c.Global},
		{"apod", &c.APOD},
		{"database", &c.Database},
		{"log", &c.Log},
		{"cache", &c.Cache},
	}
	for _, s := range sections {
		v := validate.Struct(s.section)
		if !v.Validate() {
			errs = append(errs, fmt.Errorf("%s: %s", s.name, v.Errors.String()))
		}
	}

	if c.APOD.Timeout <= 0 {
		errs = append(errs, errors.New("apod: timeout must be positive"))
	}
	if c.Cache.Enabled && c.Cache.TTL < 0 {
		errs = append(errs, errors.New("cache: ttl must not be negative"))
	}
	if c.Prefetch.Enabled && c.Prefetch.Schedule == "" {
		errs = append(errs, errors.New("prefetch: schedule is required when enabled"))
	}

	return errors.Join(errs...)
}

// CacheSizeMB is the effective cache size, zero when caching is disabled.
func (c *Config) CacheSizeMB() int {
	if !c.Cache.Enabled {
		return 0
	}
	return c.Cache.SizeMB
}
