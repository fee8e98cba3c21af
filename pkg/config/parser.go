package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseConfig reads, validates and parses a configuration file
func ParseConfig(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	return Parse(data)
}

// Parse validates and decodes a JSON configuration document
func Parse(data []byte) (*Config, error) {
	if err := ValidateBytes(data); err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateSemantics(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
