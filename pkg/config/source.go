package config

import "os"

// Source assembles the effective configuration. Load reads everything
// again on every call, so edits to the file, the environment or the saved
// settings apply to the next upload without a restart.
type Source struct {
	ConfigFile string              // Optional JSON config file
	Settings   *SettingsStore      // Optional saved S3 settings
	Getenv     func(string) string // Defaults to os.Getenv
}

// Load builds the configuration: file first, then saved settings, then the
// environment. Saved settings are ignored when S3_BUCKET is set.
func (s *Source) Load() (*Config, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := &Config{}
	if s.ConfigFile != "" {
		parsed, err := ParseConfig(s.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}

	if s.Settings != nil && getenv(EnvBucket) == "" {
		settings, err := s.Settings.Load()
		if err != nil {
			return nil, err
		}
		if settings != nil {
			cfg.PrependDestination(settings.ToDestination())
		}
	}

	ApplyEnv(cfg, getenv)

	return cfg, nil
}
