package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// chdir into an empty dir so no stray .env is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "https://api.offybox.com/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.Storage != "file" {
		t.Errorf("Storage = %q, want file", cfg.Storage)
	}
	if cfg.StateDir != filepath.Join(home, ".offyadmin") {
		t.Errorf("StateDir = %q", cfg.StateDir)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("Timeout() = %v, want 30s", cfg.Timeout())
	}
	if cfg.LogPath() != filepath.Join(home, ".offyadmin", "offyadmin.log") {
		t.Errorf("LogPath() = %q", cfg.LogPath())
	}
	if got := cfg.LocalResourceList(); len(got) != 1 || got[0] != "tenant-mappings" {
		t.Errorf("LocalResourceList() = %v", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("OFFYBOX_API_URL", "http://localhost:8080/api")
	t.Setenv("OFFYBOX_STORAGE", "redis")
	t.Setenv("OFFYBOX_REDIS_DB", "3")
	t.Setenv("OFFYBOX_HTTP_TIMEOUT", "0")
	t.Setenv("OFFYBOX_LOCAL_RESOURCES", "tickets, modules ,")
	t.Setenv("OFFYBOX_LOG_FILE", "/tmp/x.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080/api" || cfg.Storage != "redis" || cfg.RedisDB != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0", cfg.Timeout())
	}
	if got := cfg.LocalResourceList(); len(got) != 2 || got[0] != "tickets" || got[1] != "modules" {
		t.Errorf("LocalResourceList() = %v", got)
	}
	if cfg.LogPath() != "/tmp/x.log" {
		t.Errorf("LogPath() = %q", cfg.LogPath())
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "OFFYBOX_TOKEN=from-dotenv\nOFFYBOX_LOG_LEVEL=debug\n")
	// godotenv writes straight into the process environment.
	t.Cleanup(func() { os.Unsetenv("OFFYBOX_TOKEN") }) //nolint:errcheck
	t.Setenv("OFFYBOX_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Token != "from-dotenv" {
		t.Errorf("Token = %q, want from-dotenv", cfg.Token)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want environment to win", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, val, want string
	}{
		{"bad url", "OFFYBOX_API_URL", "ftp://x", "OFFYBOX_API_URL"},
		{"bad storage", "OFFYBOX_STORAGE", "s3", "OFFYBOX_STORAGE"},
		{"bad timeout", "OFFYBOX_HTTP_TIMEOUT", "soon", "OFFYBOX_HTTP_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.HasPrefix(err.Error(), "config:") || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q", err)
			}
		})
	}
}
