package cli

import (
	"github.com/spf13/cobra"

	"github.com/williamokano/img_uploader/pkg/history"
	"github.com/williamokano/img_uploader/pkg/server"
)

func newServeCommand(a *app) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP upload endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.GetListen()
			}

			ctx := cmd.Context()
			recorder, err := history.Open(ctx, cfg.History.DSN)
			if err != nil {
				return err
			}
			defer recorder.Close()

			srv := server.New(a.newService(recorder), cfg.GetMaxUploadBytes(), a.logger)
			return srv.Run(ctx, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	return cmd
}
