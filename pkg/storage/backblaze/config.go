package backblaze

import (
	"fmt"
	"strings"

	"github.com/williamokano/img_uploader/pkg/storage"
)

type Config struct {
	AccountID      string `json:"account_id"`
	ApplicationKey string `json:"application_key"`
	BucketName     string `json:"bucket_name"`
	Prefix         string `json:"prefix"`          // Prepended to every object key
	PublicBaseURL  string `json:"public_base_url"` // Optional: CDN in front of the bucket
}

func parseConfig(options map[string]interface{}) (*Config, error) {
	cfg := &Config{}

	required := []struct {
		name string
		dst  *string
	}{
		{"account_id", &cfg.AccountID},
		{"application_key", &cfg.ApplicationKey},
		{"bucket_name", &cfg.BucketName},
	}
	for _, opt := range required {
		v, ok := options[opt.name].(string)
		if !ok || v == "" {
			return nil, storage.MissingOptionError(opt.name)
		}
		*opt.dst = v
	}

	if v, ok := options["prefix"].(string); ok {
		cfg.Prefix = strings.Trim(v, "/")
	}
	if v, ok := options["public_base_url"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: public_base_url must be a string", storage.ErrInvalidConfig)
		}
		cfg.PublicBaseURL = strings.TrimSuffix(s, "/")
	}

	return cfg, nil
}
