package s3_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/img_uploader/pkg/storage"
	"github.com/williamokano/img_uploader/pkg/storage/s3"
)

func writeSharedFiles(t *testing.T, credentials, config string) {
	t.Helper()

	dir := t.TempDir()
	credsPath := filepath.Join(dir, "credentials")
	configPath := filepath.Join(dir, "config")
	require.NoError(t, os.WriteFile(credsPath, []byte(credentials), 0600))
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0600))

	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", credsPath)
	t.Setenv("AWS_CONFIG_FILE", configPath)
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_SESSION_TOKEN", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
}

func TestResolveCredentials(t *testing.T) {
	t.Run("no_profile_is_noop", func(t *testing.T) {
		cfg := s3.Config{Bucket: "b", Region: "us-east-1"}
		got, err := s3.ResolveCredentials(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg, got)
	})

	t.Run("explicit_keys_win", func(t *testing.T) {
		cfg := s3.Config{Bucket: "b", Region: "us-east-1", AccessKeyID: "AK", SecretAccessKey: "SK", Profile: "does-not-exist"}
		got, err := s3.ResolveCredentials(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, cfg, got)
	})

	t.Run("keys_and_region_from_profile", func(t *testing.T) {
		writeSharedFiles(t,
			"[images]\naws_access_key_id = AKPROFILE\naws_secret_access_key = SKPROFILE\n",
			"[profile images]\nregion = eu-central-1\n",
		)

		got, err := s3.ResolveCredentials(context.Background(), s3.Config{Bucket: "b", Profile: "images"})
		require.NoError(t, err)
		assert.Equal(t, "AKPROFILE", got.AccessKeyID)
		assert.Equal(t, "SKPROFILE", got.SecretAccessKey)
		assert.Equal(t, "eu-central-1", got.Region)
	})

	t.Run("configured_region_kept", func(t *testing.T) {
		writeSharedFiles(t,
			"[images]\naws_access_key_id = AKPROFILE\naws_secret_access_key = SKPROFILE\n",
			"[profile images]\nregion = eu-central-1\n",
		)

		got, err := s3.ResolveCredentials(context.Background(), s3.Config{Bucket: "b", Region: "us-west-2", Profile: "images"})
		require.NoError(t, err)
		assert.Equal(t, "us-west-2", got.Region)
	})

	t.Run("temporary_credentials_rejected", func(t *testing.T) {
		writeSharedFiles(t,
			"[temp]\naws_access_key_id = ASIA\naws_secret_access_key = SK\naws_session_token = TOKEN\n",
			"",
		)

		_, err := s3.ResolveCredentials(context.Background(), s3.Config{Bucket: "b", Region: "us-east-1", Profile: "temp"})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("unknown_profile", func(t *testing.T) {
		writeSharedFiles(t, "", "")

		_, err := s3.ResolveCredentials(context.Background(), s3.Config{Bucket: "b", Region: "us-east-1", Profile: "nope"})
		require.Error(t, err)
		assert.True(t, storage.IsCritical(err))
	})
}
