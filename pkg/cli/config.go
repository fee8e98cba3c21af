package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/img_uploader/pkg/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage saved S3 settings",
	}
	cmd.AddCommand(
		newConfigShowCommand(a),
		newConfigSaveCommand(a),
		newConfigDeleteCommand(a),
	)
	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print saved S3 settings with the secret masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.NewSettingsStore(a.settingsPath)
			settings, err := store.Load()
			if err != nil {
				return err
			}
			if settings == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no saved settings at %s\n", store.Path())
				return nil
			}

			data, err := json.MarshalIndent(settings.Redacted(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newConfigSaveCommand(a *app) *cobra.Command {
	var s config.S3Settings

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save S3 settings for later uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.NewSettingsStore(a.settingsPath)
			if err := store.Save(s); err != nil {
				return err
			}
			a.logger.Info().Str("path", store.Path()).Str("bucket", s.BucketName).Msg("saved s3 settings")
			fmt.Fprintf(cmd.OutOrStdout(), "saved settings to %s\n", store.Path())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&s.BucketName, "bucket", "", "bucket name")
	flags.StringVar(&s.Region, "region", "", "bucket region")
	flags.StringVar(&s.AccessKeyID, "access-key-id", "", "access key id")
	flags.StringVar(&s.SecretAccessKey, "secret-access-key", "", "secret access key")
	flags.StringVar(&s.EndpointURL, "endpoint", "", "custom S3-compatible endpoint URL")
	flags.BoolVar(&s.PathStyle, "path-style", false, "use path-style addressing with the custom endpoint")
	flags.StringVar(&s.PublicURL, "public-url", "", "base URL returned for uploaded objects")
	flags.StringVar(&s.PathPrefix, "prefix", "", "object key prefix (default uploads)")
	for _, name := range []string{"bucket", "region", "access-key-id", "secret-access-key"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newConfigDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete saved S3 settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.NewSettingsStore(a.settingsPath)
			if err := store.Delete(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted settings at %s\n", store.Path())
			return nil
		},
	}
}
