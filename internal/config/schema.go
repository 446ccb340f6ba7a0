package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config holds pdfa11y configuration.
// Stored at: ~/.pdfa11y/config.yaml
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Render  RenderConfig  `mapstructure:"render" yaml:"render"`
	Audit   AuditConfig   `mapstructure:"audit" yaml:"audit"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host            string  `mapstructure:"host" yaml:"host"`
	Port            int     `mapstructure:"port" yaml:"port"`
	MaxUploadMB     int     `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
	UploadRateLimit float64 `mapstructure:"upload_rate_limit" yaml:"upload_rate_limit"` // Analyze requests per second
	UploadBurst     int     `mapstructure:"upload_burst" yaml:"upload_burst"`
}

// RenderConfig configures page rasterization.
type RenderConfig struct {
	Binary         string  `mapstructure:"binary" yaml:"binary"`
	RasterScale    float64 `mapstructure:"raster_scale" yaml:"raster_scale"` // Pixels per point
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxAttempts    uint    `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// AuditConfig configures the rule engine.
type AuditConfig struct {
	// SeverityOverrides maps criterion ids ("1".."10") to severities.
	SeverityOverrides map[string]string `mapstructure:"severity_overrides" yaml:"severity_overrides"`
}

// MetricsConfig configures the audit history database.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"` // Data directory; empty means <home>/data
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			MaxUploadMB:     50,
			UploadRateLimit: 2.0,
			UploadBurst:     5,
		},
		Render: RenderConfig{
			Binary:         "pdftoppm",
			RasterScale:    1.5,
			TimeoutSeconds: 60,
			MaxAttempts:    3,
		},
		Audit: AuditConfig{
			SeverityOverrides: map[string]string{},
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}
	if c.Server.UploadRateLimit < 0 {
		return fmt.Errorf("server.upload_rate_limit must not be negative")
	}
	if c.Render.RasterScale <= 0 {
		return fmt.Errorf("render.raster_scale must be positive")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Addr is the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// RenderTimeout is the per-run rasterizer timeout.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Render.TimeoutSeconds) * time.Second
}

// ParseLevel maps a level name to a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
