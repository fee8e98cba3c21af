package config

// Environment variables read by ApplyEnv
const (
	EnvBucket                = "S3_BUCKET"
	EnvRegion                = "S3_REGION"
	EnvEndpoint              = "S3_ENDPOINT"
	EnvPathStyle             = "S3_PATH_STYLE"
	EnvAccessKeyID           = "S3_ACCESS_KEY_ID"
	EnvSecretAccessKey       = "S3_SECRET_ACCESS_KEY"
	EnvPublicURL             = "S3_PUBLIC_URL"
	EnvPrefix                = "S3_PREFIX"
	EnvPublicURLFromEndpoint = "S3_PUBLIC_URL_FROM_ENDPOINT"
	EnvProfile               = "S3_PROFILE"

	// EnvDestinationName names the destination built from the environment
	EnvDestinationName = "env_s3"
)

// ApplyEnv makes an s3 destination built from the S3_* variables the
// primary destination when S3_BUCKET is set. Missing fields are left empty
// and reported when the backend is created.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	bucket := getenv(EnvBucket)
	if bucket == "" {
		return
	}

	options := map[string]interface{}{
		"bucket":            bucket,
		"region":            getenv(EnvRegion),
		"access_key_id":     getenv(EnvAccessKeyID),
		"secret_access_key": getenv(EnvSecretAccessKey),
		// Only the exact string "true" enables these
		"path_style":               getenv(EnvPathStyle) == "true",
		"public_url_from_endpoint": getenv(EnvPublicURLFromEndpoint) == "true",
	}

	optional := map[string]string{
		"endpoint":        EnvEndpoint,
		"public_base_url": EnvPublicURL,
		"prefix":          EnvPrefix,
		"profile":         EnvProfile,
	}
	for option, env := range optional {
		if v := getenv(env); v != "" {
			options[option] = v
		}
	}

	cfg.PrependDestination(StorageDestination{
		Name:    EnvDestinationName,
		Type:    "s3",
		Options: options,
	})
}
