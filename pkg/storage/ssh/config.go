package ssh

import (
	"fmt"
	"strings"

	"github.com/williamokano/img_uploader/pkg/storage"
)

type Config struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`             // Default: 22
	User           string `json:"user"`
	Password       string `json:"password"`         // Optional
	KeyPath        string `json:"key_path"`         // Optional: path to private key
	KeyPassphrase  string `json:"key_passphrase"`   // Optional
	KnownHostsPath string `json:"known_hosts_path"` // Optional: verify the server key
	RemotePath     string `json:"remote_path"`      // Web root (or subdirectory) on the server
	PublicBaseURL  string `json:"public_base_url"`  // URL that serves RemotePath
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{
		Port: 22,
	}

	required := []struct {
		name string
		dst  *string
	}{
		{"host", &cfg.Host},
		{"user", &cfg.User},
		{"remote_path", &cfg.RemotePath},
		{"public_base_url", &cfg.PublicBaseURL},
	}
	for _, opt := range required {
		v, ok := options[opt.name].(string)
		if !ok || v == "" {
			return nil, storage.MissingOptionError(opt.name)
		}
		*opt.dst = v
	}
	cfg.PublicBaseURL = strings.TrimSuffix(cfg.PublicBaseURL, "/")

	if v, ok := options["password"].(string); ok {
		cfg.Password = v
	}
	if v, ok := options["key_path"].(string); ok {
		cfg.KeyPath = v
	}
	if v, ok := options["key_passphrase"].(string); ok {
		cfg.KeyPassphrase = v
	}
	if v, ok := options["known_hosts_path"].(string); ok {
		cfg.KnownHostsPath = v
	}

	// JSON numbers decode as float64
	switch v := options["port"].(type) {
	case float64:
		cfg.Port = int(v)
	case int:
		cfg.Port = v
	case nil:
	default:
		return nil, fmt.Errorf("%w: port must be a number", storage.ErrInvalidConfig)
	}

	if cfg.Password == "" && cfg.KeyPath == "" {
		return nil, fmt.Errorf("%w: one of password or key_path is required", storage.ErrInvalidConfig)
	}

	return cfg, nil
}
