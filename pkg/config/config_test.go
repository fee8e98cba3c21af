package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/img_uploader/pkg/config"
)

func TestParseConfig(t *testing.T) {
	t.Run("valid_file", func(t *testing.T) {
		cfg, err := config.ParseConfig("testdata/valid.json")
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.GetLogLevel())
		assert.Equal(t, "console", cfg.GetLogFormat())
		assert.Equal(t, 2, cfg.GetMaxConcurrentUploads())
		assert.Equal(t, int64(1048576), cfg.GetMaxUploadBytes())
		assert.Equal(t, "0.0.0.0:9000", cfg.GetListen())
		assert.Equal(t, "postgres://localhost/img?sslmode=disable", cfg.History.DSN)

		retry := cfg.GetRetryConfig()
		assert.Equal(t, 3, retry.MaxAttempts)
		assert.Equal(t, 100*time.Millisecond, retry.InitialDelay)
		assert.Equal(t, time.Second, retry.MaxDelay)

		enabled := cfg.EnabledDestinations()
		require.Len(t, enabled, 2)
		assert.Equal(t, "primary", enabled[0].Name)
		assert.Equal(t, "web", enabled[1].Name)
		assert.True(t, enabled[0].Enabled)
		assert.Equal(t, true, enabled[0].Options["path_style"])
		assert.Equal(t, float64(2222), enabled[1].Options["port"])
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := config.Parse([]byte(`{"storage": {"destinations": []}}`))
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.GetLogLevel())
		assert.Equal(t, "json", cfg.GetLogFormat())
		assert.Equal(t, config.DefaultMaxConcurrentUploads, cfg.GetMaxConcurrentUploads())
		assert.Equal(t, int64(config.DefaultMaxUploadBytes), cfg.GetMaxUploadBytes())
		assert.Equal(t, config.DefaultListen, cfg.GetListen())
		assert.Equal(t, 1, cfg.GetRetryConfig().MaxAttempts)
		assert.Empty(t, cfg.EnabledDestinations())
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := config.ParseConfig(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed_json", func(t *testing.T) {
		_, err := config.Parse([]byte(`{"storage":`))
		assert.Error(t, err)
	})
}

func TestParse_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad_log_level", `{"log_level": "trace"}`},
		{"bad_destination_type", `{"storage": {"destinations": [{"name": "x", "type": "ftp"}]}}`},
		{"bad_destination_name", `{"storage": {"destinations": [{"name": "has space", "type": "local"}]}}`},
		{"missing_type", `{"storage": {"destinations": [{"name": "x"}]}}`},
		{"zero_concurrency", `{"max_concurrent_uploads": 0}`},
		{"s3_endpoint_without_scheme", `{"storage": {"destinations": [{"name": "x", "type": "s3", "options": {"endpoint": "localhost:9000"}}]}}`},
		{"s3_path_style_string", `{"storage": {"destinations": [{"name": "x", "type": "s3", "options": {"path_style": "yes"}}]}}`},
		{"ssh_missing_public_url", `{"storage": {"destinations": [{"name": "x", "type": "ssh", "options": {"host": "h", "user": "u", "remote_path": "/r"}}]}}`},
		{"unknown_retry_field", `{"retry": {"attempts": 3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.doc))
			require.Error(t, err)

			var validationErr *config.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Problems)
		})
	}
}

func TestParse_SemanticViolations(t *testing.T) {
	t.Run("duplicate_names", func(t *testing.T) {
		_, err := config.Parse([]byte(`{"storage": {"destinations": [
			{"name": "a", "type": "local", "options": {"path": "/tmp/a"}},
			{"name": "a", "type": "local", "options": {"path": "/tmp/b"}}
		]}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate destination name: a")
	})

	t.Run("retry_delays", func(t *testing.T) {
		_, err := config.Parse([]byte(`{"retry": {"initial_delay_ms": 500, "max_delay_ms": 100}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial_delay_ms")
	})
}

func TestValidate_File(t *testing.T) {
	require.NoError(t, config.Validate("testdata/valid.json"))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"log_format": "xml"}`), 0644))
	assert.Error(t, config.Validate(bad))
}

func TestPrependDestination(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Destinations: []config.StorageDestination{
		{Name: "a", Type: "local"},
		{Name: "env_s3", Type: "s3"},
		{Name: "b", Type: "local"},
	}}}

	cfg.PrependDestination(config.StorageDestination{Name: "env_s3", Type: "s3", Options: map[string]interface{}{"bucket": "new"}})

	names := make([]string, 0, len(cfg.Storage.Destinations))
	for _, d := range cfg.Storage.Destinations {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"env_s3", "a", "b"}, names)
	assert.Equal(t, "new", cfg.Storage.Destinations[0].Options["bucket"])
	assert.True(t, cfg.HasDestination("a"))
	assert.False(t, cfg.HasDestination("c"))
}
