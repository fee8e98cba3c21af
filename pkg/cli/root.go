// Package cli wires the img_uploader commands.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/williamokano/img_uploader/pkg/config"
	"github.com/williamokano/img_uploader/pkg/history"
	"github.com/williamokano/img_uploader/pkg/logger"
	"github.com/williamokano/img_uploader/pkg/upload"
)

type app struct {
	configFile   string
	settingsPath string
	logLevel     string
	logFormat    string
	logger       zerolog.Logger
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	defaultSettings, err := config.DefaultSettingsPath()
	if err != nil {
		defaultSettings = config.SettingsFileName
	}

	cmd := &cobra.Command{
		Use:           "img_uploader",
		Short:         "Upload images to S3-compatible storage and print their public URLs",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.initLogger("info", "json")
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "path to JSON config file")
	flags.StringVar(&a.settingsPath, "settings", defaultSettings, "path to saved S3 settings")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json, console (overrides config)")

	cmd.AddCommand(
		newServeCommand(a),
		newUploadCommand(a),
		newConfigCommand(a),
		newHistoryCommand(a),
	)
	return cmd
}

// initLogger applies the flag values, falling back to the given defaults
func (a *app) initLogger(level, format string) {
	if a.logLevel != "" {
		level = a.logLevel
	}
	if a.logFormat != "" {
		format = a.logFormat
	}
	logger.Init(level, format)
	a.logger = *logger.Get()
}

func (a *app) source() *config.Source {
	return &config.Source{
		ConfigFile: a.configFile,
		Settings:   config.NewSettingsStore(a.settingsPath),
	}
}

// loadConfig loads the effective configuration and re-initializes logging
// with its settings
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := a.source().Load()
	if err != nil {
		return nil, err
	}
	a.initLogger(cfg.GetLogLevel(), cfg.GetLogFormat())
	return cfg, nil
}

// newService builds an upload service that reloads configuration per upload
func (a *app) newService(recorder history.Recorder) *upload.Service {
	return upload.NewService(a.source(), a.logger, upload.WithHistory(recorder))
}
