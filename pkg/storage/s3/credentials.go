package s3

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/williamokano/img_uploader/pkg/storage"
)

// ResolveCredentials fills missing access keys from the shared AWS config
// profile named by cfg.Profile. Explicit keys always win. The SDK is only
// consulted for lookup; it never touches the upload request.
func ResolveCredentials(ctx context.Context, cfg Config) (Config, error) {
	if cfg.Profile == "" || (cfg.AccessKeyID != "" && cfg.SecretAccessKey != "") {
		return cfg, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithSharedConfigProfile(cfg.Profile),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return cfg, fmt.Errorf("%w: failed to load profile %s: %w", storage.ErrInvalidConfig, cfg.Profile, err)
	}

	creds, err := awsCfg.Credentials.Retrieve(ctx)
	if err != nil {
		return cfg, fmt.Errorf("%w: profile %s has no usable credentials: %w", storage.ErrAuthFailed, cfg.Profile, err)
	}

	// Session tokens would need an extra signed header
	if creds.SessionToken != "" {
		return cfg, fmt.Errorf("%w: profile %s returned temporary credentials, static keys are required", storage.ErrInvalidConfig, cfg.Profile)
	}

	cfg.AccessKeyID = creds.AccessKeyID
	cfg.SecretAccessKey = creds.SecretAccessKey
	if cfg.Region == "" {
		cfg.Region = awsCfg.Region
	}

	return cfg, nil
}
