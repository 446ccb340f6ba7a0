package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is one documented configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default value.
// They are registered as viper defaults and listed in the generated
// config file.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// ===================
		// Server
		// ===================
		{
			Key:         "server.host",
			Value:       d.Server.Host,
			Description: "Address the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       d.Server.Port,
			Description: "Port the HTTP server listens on",
		},
		{
			Key:         "server.max_upload_mb",
			Value:       d.Server.MaxUploadMB,
			Description: "Largest accepted upload in megabytes",
		},
		{
			Key:         "server.upload_rate_limit",
			Value:       d.Server.UploadRateLimit,
			Description: "Analyze requests per second allowed across all clients (0 disables the limit)",
		},
		{
			Key:         "server.upload_burst",
			Value:       d.Server.UploadBurst,
			Description: "Analyze requests allowed in a burst above the rate limit",
		},

		// ===================
		// Rendering
		// ===================
		{
			Key:         "render.binary",
			Value:       d.Render.Binary,
			Description: "pdftoppm executable used to rasterize pages",
		},
		{
			Key:         "render.raster_scale",
			Value:       d.Render.RasterScale,
			Description: "Raster pixels per PDF point (1.5 renders at 108 DPI)",
		},
		{
			Key:         "render.timeout_seconds",
			Value:       d.Render.TimeoutSeconds,
			Description: "Timeout for one pdftoppm run",
		},
		{
			Key:         "render.max_attempts",
			Value:       d.Render.MaxAttempts,
			Description: "Attempts per page before a render fails",
		},

		// ===================
		// Audit
		// ===================
		{
			Key:         "audit.severity_overrides",
			Value:       d.Audit.SeverityOverrides,
			Description: "Severity per criterion id, e.g. {\"3\": serious}; unlisted criteria keep their default",
		},

		// ===================
		// Metrics
		// ===================
		{
			Key:         "metrics.enabled",
			Value:       d.Metrics.Enabled,
			Description: "Record analysis and remediation outcomes to SQLite",
		},
		{
			Key:         "metrics.path",
			Value:       d.Metrics.Path,
			Description: "Directory of the metrics database (empty uses ~/.pdfa11y/data)",
		},

		// ===================
		// Logging
		// ===================
		{
			Key:         "log.level",
			Value:       d.Log.Level,
			Description: "Log level: debug, info, warn or error",
		},
	}
}

// GetDefault returns the default entry for a config key, or nil.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// Lookup returns the documented entry for key. Unknown keys fail with
// ErrNoDefault.
func Lookup(key string) (Entry, error) {
	if err := ValidateKey(key); err != nil {
		return Entry{}, err
	}
	if e := GetDefault(key); e != nil {
		return *e, nil
	}
	return Entry{}, fmt.Errorf("%w for %q", ErrNoDefault, key)
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	// Don't allow keys starting or ending with dots
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
