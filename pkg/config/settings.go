package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// SettingsFileName is the file persisted S3 settings are stored in
	SettingsFileName = "s3_config.json"

	// SettingsDestinationName names the destination built from saved settings
	SettingsDestinationName = "saved_s3"

	appDirName = "img_uploader"
)

// S3Settings are the S3 settings a user saves once and reuses
type S3Settings struct {
	BucketName      string `json:"bucket_name"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	EndpointURL     string `json:"endpoint_url,omitempty"`
	PathPrefix      string `json:"path_prefix,omitempty"`
	PathStyle       bool   `json:"path_style,omitempty"`
	PublicURL       string `json:"public_url,omitempty"`
}

// Redacted returns a copy safe to print
func (s S3Settings) Redacted() S3Settings {
	if s.SecretAccessKey != "" {
		s.SecretAccessKey = "********"
	}
	return s
}

// ToDestination converts saved settings into an s3 destination. With a
// custom endpoint and no public URL the returned URL is derived from the
// endpoint, matching what the desktop app handed back.
func (s S3Settings) ToDestination() StorageDestination {
	options := map[string]interface{}{
		"bucket":                   s.BucketName,
		"region":                   s.Region,
		"access_key_id":            s.AccessKeyID,
		"secret_access_key":        s.SecretAccessKey,
		"path_style":               s.PathStyle,
		"public_url_from_endpoint": s.EndpointURL != "" && s.PublicURL == "",
	}
	if s.EndpointURL != "" {
		options["endpoint"] = s.EndpointURL
	}
	if s.PathPrefix != "" {
		options["prefix"] = s.PathPrefix
	}
	if s.PublicURL != "" {
		options["public_base_url"] = s.PublicURL
	}

	return StorageDestination{
		Name:    SettingsDestinationName,
		Type:    "s3",
		Options: options,
	}
}

// SettingsStore saves, loads and deletes S3Settings in a single JSON file
type SettingsStore struct {
	path string
}

// NewSettingsStore creates a store backed by path
func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{path: path}
}

// DefaultSettingsPath returns <user config dir>/img_uploader/s3_config.json
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, SettingsFileName), nil
}

// Path returns the settings file location
func (s *SettingsStore) Path() string { return s.path }

// Load returns the saved settings, or nil when none were saved
func (s *SettingsStore) Load() (*S3Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings S3Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	return &settings, nil
}

// Save writes settings atomically with owner-only permissions
func (s *SettingsStore) Save(settings S3Settings) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".s3_config-*")
	if err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// Delete removes saved settings. Deleting when nothing is saved is not an
// error.
func (s *SettingsStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete settings file: %w", err)
	}
	return nil
}
