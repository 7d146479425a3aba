// Package config loads offyadmin settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// APIURL is the root of the support backend, e.g. https://api.offybox.com/v1.
	APIURL string `mapstructure:"OFFYBOX_API_URL"`
	// Token, when set, signs in without a login round-trip.
	Token string `mapstructure:"OFFYBOX_TOKEN"`
	// StateDir holds snapshots and the log file.
	StateDir string `mapstructure:"OFFYBOX_STATE_DIR"`
	// Storage selects the snapshot backend: file or redis.
	Storage       string `mapstructure:"OFFYBOX_STORAGE"`
	RedisAddr     string `mapstructure:"OFFYBOX_REDIS_ADDR"`
	RedisPassword string `mapstructure:"OFFYBOX_REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"OFFYBOX_REDIS_DB"`
	// HTTPTimeout is a duration string; "0" disables the timeout.
	HTTPTimeout string `mapstructure:"OFFYBOX_HTTP_TIMEOUT"`
	LogLevel    string `mapstructure:"OFFYBOX_LOG_LEVEL"`
	// LogFile defaults to <StateDir>/offyadmin.log.
	LogFile string `mapstructure:"OFFYBOX_LOG_FILE"`
	// LocalResources is a comma-separated list of collections kept without a
	// backend.
	LocalResources string `mapstructure:"OFFYBOX_LOCAL_RESOURCES"`
}

// Load reads .env (if present), then builds and validates Config from the
// environment. Variables already set in the environment win over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("OFFYBOX_API_URL", "https://api.offybox.com/v1")
	v.SetDefault("OFFYBOX_TOKEN", "")
	v.SetDefault("OFFYBOX_STATE_DIR", defaultStateDir())
	v.SetDefault("OFFYBOX_STORAGE", "file")
	v.SetDefault("OFFYBOX_REDIS_ADDR", "127.0.0.1:6379")
	v.SetDefault("OFFYBOX_REDIS_PASSWORD", "")
	v.SetDefault("OFFYBOX_REDIS_DB", 0)
	v.SetDefault("OFFYBOX_HTTP_TIMEOUT", "30s")
	v.SetDefault("OFFYBOX_LOG_LEVEL", "info")
	v.SetDefault("OFFYBOX_LOG_FILE", "")
	v.SetDefault("OFFYBOX_LOCAL_RESOURCES", "tenant-mappings")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: OFFYBOX_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.StateDir == "" {
		return errors.New("config: OFFYBOX_STATE_DIR must be set")
	}
	switch c.Storage {
	case "file", "redis":
	default:
		return fmt.Errorf("config: OFFYBOX_STORAGE must be file or redis, got %q", c.Storage)
	}
	if c.Storage == "redis" && c.RedisAddr == "" {
		return errors.New("config: OFFYBOX_REDIS_ADDR must be set when OFFYBOX_STORAGE=redis")
	}
	if _, err := c.parseTimeout(); err != nil {
		return fmt.Errorf("config: OFFYBOX_HTTP_TIMEOUT: %w", err)
	}
	return nil
}

func (c *Config) parseTimeout() (time.Duration, error) {
	s := strings.TrimSpace(c.HTTPTimeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("must not be negative")
	}
	return d, nil
}

// Timeout returns the per-request timeout; zero means none.
func (c *Config) Timeout() time.Duration {
	d, _ := c.parseTimeout()
	return d
}

// LogPath returns the log file location.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.StateDir, "offyadmin.log")
}

// LocalResourceList returns the collection names kept without a backend.
func (c *Config) LocalResourceList() []string {
	if c == nil || c.LocalResources == "" {
		return nil
	}
	parts := strings.Split(c.LocalResources, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".offyadmin"
	}
	return filepath.Join(home, ".offyadmin")
}
