package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/williamokano/img_uploader/pkg/history"
	"github.com/williamokano/img_uploader/pkg/upload"
)

func newUploadCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload files and print their public URLs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			reqs := make([]upload.Request, 0, len(args))
			for _, path := range args {
				req, err := upload.RequestFromFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				reqs = append(reqs, req)
			}

			ctx := cmd.Context()
			recorder, err := history.Open(ctx, cfg.History.DSN)
			if err != nil {
				return err
			}
			defer recorder.Close()

			results := a.newService(recorder).UploadBatch(ctx, reqs)

			failed := 0
			for i, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[i], r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[i], r.Result.URL)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(results))
			}
			return nil
		},
	}
}
