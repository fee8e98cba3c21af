package config

import (
	"time"

	"github.com/williamokano/img_uploader/pkg/storage"
)

const (
	DefaultMaxConcurrentUploads = 4
	DefaultMaxUploadBytes       = 20 << 20
	DefaultListen               = "127.0.0.1:8787"
)

// RetryConfig controls caller-level retries of a whole upload
type RetryConfig struct {
	MaxAttempts    int `json:"max_attempts,omitempty"`     // default: 1 (no retry)
	InitialDelayMs int `json:"initial_delay_ms,omitempty"` // default: 1000
	MaxDelayMs     int `json:"max_delay_ms,omitempty"`     // default: 30000
}

// ServerConfig defines the HTTP upload endpoint
type ServerConfig struct {
	Listen string `json:"listen,omitempty"` // default: 127.0.0.1:8787
}

// HistoryConfig defines where successful uploads are recorded
type HistoryConfig struct {
	DSN string `json:"dsn,omitempty"` // PostgreSQL DSN; empty disables history
}

// StorageDestination defines a single upload destination
type StorageDestination struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"` // s3, local, backblaze, ssh
	Enabled *bool                  `json:"enabled,omitempty"`
	BaseDir string                 `json:"base_dir,omitempty"`
	Options map[string]interface{} `json:"options"`
}

// IsEnabled returns whether the destination is active (defaults to true)
func (d StorageDestination) IsEnabled() bool {
	return d.Enabled == nil || *d.Enabled
}

// ToStorageConfig converts the destination into a backend config
func (d StorageDestination) ToStorageConfig() storage.Config {
	return storage.Config{
		Name:    d.Name,
		Type:    d.Type,
		Enabled: d.IsEnabled(),
		BaseDir: d.BaseDir,
		Options: d.Options,
	}
}

// StorageConfig lists destinations in priority order. The first enabled
// destination is the primary one; its URL is what callers get back.
type StorageConfig struct {
	Destinations []StorageDestination `json:"destinations"`
}

// Config is the root configuration structure
type Config struct {
	LogLevel             string        `json:"log_level,omitempty"`              // debug, info, warn, error (default: info)
	LogFormat            string        `json:"log_format,omitempty"`             // json, console (default: json)
	MaxConcurrentUploads int           `json:"max_concurrent_uploads,omitempty"` // default: 4
	MaxUploadBytes       int64         `json:"max_upload_bytes,omitempty"`       // default: 20 MiB
	Retry                RetryConfig   `json:"retry,omitempty"`
	Server               ServerConfig  `json:"server,omitempty"`
	History              HistoryConfig `json:"history,omitempty"`
	Storage              StorageConfig `json:"storage"`
}

// GetMaxConcurrentUploads returns the batch concurrency (defaults to 4)
func (c *Config) GetMaxConcurrentUploads() int {
	if c.MaxConcurrentUploads > 0 {
		return c.MaxConcurrentUploads
	}
	return DefaultMaxConcurrentUploads
}

// GetMaxUploadBytes returns the request size limit (defaults to 20 MiB)
func (c *Config) GetMaxUploadBytes() int64 {
	if c.MaxUploadBytes > 0 {
		return c.MaxUploadBytes
	}
	return DefaultMaxUploadBytes
}

// GetListen returns the HTTP listen address
func (c *Config) GetListen() string {
	if c.Server.Listen != "" {
		return c.Server.Listen
	}
	return DefaultListen
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to json)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "json"
}

// GetRetryConfig converts the retry section, filling defaults
func (c *Config) GetRetryConfig() storage.RetryConfig {
	cfg := storage.DefaultRetryConfig()
	if c.Retry.MaxAttempts > 0 {
		cfg.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.InitialDelayMs > 0 {
		cfg.InitialDelay = time.Duration(c.Retry.InitialDelayMs) * time.Millisecond
	}
	if c.Retry.MaxDelayMs > 0 {
		cfg.MaxDelay = time.Duration(c.Retry.MaxDelayMs) * time.Millisecond
	}
	return cfg
}

// EnabledDestinations returns enabled destinations as backend configs,
// preserving order
func (c *Config) EnabledDestinations() []storage.Config {
	var configs []storage.Config
	for _, dest := range c.Storage.Destinations {
		if dest.IsEnabled() {
			configs = append(configs, dest.ToStorageConfig())
		}
	}
	return configs
}

// HasDestination reports whether a destination with name exists
func (c *Config) HasDestination(name string) bool {
	for _, dest := range c.Storage.Destinations {
		if dest.Name == name {
			return true
		}
	}
	return false
}

// PrependDestination makes dest the primary destination, replacing any
// destination with the same name
func (c *Config) PrependDestination(dest StorageDestination) {
	kept := make([]StorageDestination, 0, len(c.Storage.Destinations)+1)
	kept = append(kept, dest)
	for _, d := range c.Storage.Destinations {
		if d.Name != dest.Name {
			kept = append(kept, d)
		}
	}
	c.Storage.Destinations = kept
}
