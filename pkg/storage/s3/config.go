package s3

import (
	"fmt"
	"strconv"

	"github.com/williamokano/img_uploader/pkg/objectkey"
	"github.com/williamokano/img_uploader/pkg/storage"
)

// Config holds S3 configuration
type Config struct {
	Bucket          string `json:"bucket"`            // Target bucket
	Region          string `json:"region"`            // Signing region (e.g., "us-east-1")
	AccessKeyID     string `json:"access_key_id"`     // AWS credentials
	SecretAccessKey string `json:"secret_access_key"`
	Endpoint        string `json:"endpoint"`          // Optional: for MinIO, R2, localstack
	PathStyle       bool   `json:"path_style"`        // Only meaningful with Endpoint
	PublicBaseURL   string `json:"public_base_url"`   // Optional: CDN base for returned URLs
	Prefix          string `json:"prefix"`            // Object key prefix, default "uploads"

	// PublicURLFromEndpoint returns the upload target URL instead of the AWS
	// virtual-hosted URL when no PublicBaseURL is set
	PublicURLFromEndpoint bool `json:"public_url_from_endpoint"`

	// Profile names a shared AWS config profile used to fill in missing
	// credentials
	Profile string `json:"profile"`
}

// KeyPrefix returns the configured prefix or the default one
func (c Config) KeyPrefix() string {
	if c.Prefix == "" {
		return objectkey.DefaultPrefix
	}
	return c.Prefix
}

// Validate checks that every field needed to sign a request is present
func (c Config) Validate() error {
	switch {
	case c.Bucket == "":
		return storage.MissingOptionError("bucket")
	case c.Region == "":
		return storage.MissingOptionError("region")
	case c.AccessKeyID == "":
		return storage.MissingOptionError("access_key_id")
	case c.SecretAccessKey == "":
		return storage.MissingOptionError("secret_access_key")
	}
	return nil
}

// Redacted returns a copy safe to log or print
func (c Config) Redacted() Config {
	if c.SecretAccessKey != "" {
		c.SecretAccessKey = "********"
	}
	return c
}

func parseConfig(options map[string]interface{}) (Config, error) {
	var cfg Config

	// Extract each field from options map
	strOpts := map[string]*string{
		"bucket":            &cfg.Bucket,
		"region":            &cfg.Region,
		"access_key_id":     &cfg.AccessKeyID,
		"secret_access_key": &cfg.SecretAccessKey,
		"endpoint":          &cfg.Endpoint,
		"public_base_url":   &cfg.PublicBaseURL,
		"prefix":            &cfg.Prefix,
		"profile":           &cfg.Profile,
	}
	for name, dst := range strOpts {
		v, ok := options[name]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return Config{}, fmt.Errorf("%w: option %s must be a string", storage.ErrInvalidConfig, name)
		}
		*dst = s
	}

	boolOpts := map[string]*bool{
		"path_style":               &cfg.PathStyle,
		"public_url_from_endpoint": &cfg.PublicURLFromEndpoint,
	}
	for name, dst := range boolOpts {
		v, ok := options[name]
		if !ok || v == nil {
			continue
		}
		b, err := toBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: option %s: %v", storage.ErrInvalidConfig, name, err)
		}
		*dst = b
	}

	return cfg, nil
}

// toBool accepts JSON booleans and the "true"/"false" strings env vars produce
func toBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		if t == "" {
			return false, nil
		}
		return strconv.ParseBool(t)
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}
