package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return configFile
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Render.RasterScale != 1.5 {
		t.Errorf("expected raster scale 1.5, got %v", cfg.Render.RasterScale)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
	if cfg.MaxUploadBytes() != 50<<20 {
		t.Errorf("unexpected upload limit %d", cfg.MaxUploadBytes())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"negative rate", func(c *Config) { c.Server.UploadRateLimit = -1 }},
		{"zero raster scale", func(c *Config) { c.Render.RasterScale = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		configFile := writeConfig(t, `
server:
  port: 9090
audit:
  severity_overrides:
    "3": serious
`)
		mgr, err := NewManager(configFile)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != 9090 {
			t.Errorf("expected 9090, got %d", cfg.Server.Port)
		}
		if cfg.Server.Host != "127.0.0.1" {
			t.Errorf("unset keys should keep defaults, got host %q", cfg.Server.Host)
		}
		if cfg.Audit.SeverityOverrides["3"] != "serious" {
			t.Errorf("expected override, got %v", cfg.Audit.SeverityOverrides)
		}
		if mgr.ConfigFile() != configFile {
			t.Errorf("ConfigFile() = %q", mgr.ConfigFile())
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		mgr, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Render.Binary != "pdftoppm" {
			t.Errorf("expected default binary")
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("PDFA11Y_SERVER_PORT", "7070")
		mgr, err := NewManager(writeConfig(t, "server:\n  port: 9090\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		if mgr.Get().Server.Port != 7070 {
			t.Errorf("expected 7070, got %d", mgr.Get().Server.Port)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "render:\n  raster_scale: 0\n")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestManager_Value(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	v, err := mgr.Value("log.level")
	if err != nil || v != "debug" {
		t.Errorf("Value(log.level) = %v, %v", v, err)
	}
	if _, err := mgr.Value("no.such.key"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := mgr.Value("bad key"); err == nil {
		t.Error("expected error for invalid key")
	}
}

func TestManager_Settings(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "log:\n  level: warn\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	settings := mgr.Settings()
	if len(settings) != len(DefaultEntries()) {
		t.Fatalf("expected %d settings, got %d", len(DefaultEntries()), len(settings))
	}

	s, err := mgr.Setting("log.level")
	if err != nil {
		t.Fatalf("Setting: %v", err)
	}
	if s.Value != "warn" || s.Default != "info" {
		t.Errorf("log.level = %v (default %v)", s.Value, s.Default)
	}
	if s.Description == "" {
		t.Error("expected description")
	}

	if _, err := mgr.Setting("log.format"); !errors.Is(err, ErrNoDefault) {
		t.Errorf("expected ErrNoDefault, got %v", err)
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "server:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Server.Port
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "server:\n  upload_rate_limit: 2\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if got := mgr.Get().Server.UploadRateLimit; got != 2 {
		t.Errorf("initial value mismatch: got %v", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Server.UploadRateLimit)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("server:\n  upload_rate_limit: 7.5\n"), 0644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	// Wait for the watcher to detect the change (fsnotify is async)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if callbackCount.Load() > 0 {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().Server.UploadRateLimit; got != 7.5 {
		t.Errorf("config not updated: got %v", got)
	}
	if v := lastValue.Load(); v != 7.5 {
		t.Errorf("callback received wrong value: %v", v)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"# pdfa11y configuration", "# render.raster_scale:", "raster_scale: 1.5", "port: 8080"} {
		if !strings.Contains(content, want) {
			t.Errorf("default file missing %q", want)
		}
	}

	// The written file loads back to the defaults.
	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("failed to load written defaults: %v", err)
	}
	if mgr.Get().Server.UploadBurst != 5 {
		t.Errorf("unexpected burst %d", mgr.Get().Server.UploadBurst)
	}
}
