package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-directory/internal/loader"
	"company-directory/internal/tui"
)

func browseCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Open the interactive directory browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url != "" {
				cfg.Client.URL = url
			}

			// The terminal belongs to the UI; only log when sent to a file.
			log := logger
			if logFile == "" {
				log = zap.NewNop()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runBrowser(ctx, log)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "dataset URL (overrides client.url)")
	return cmd
}

func runBrowser(ctx context.Context, log *zap.Logger) error {
	fetcher := loader.NewHTTPFetcher(cfg.Client.URL, nil, cfg.Client.Timeout, log)
	seq := loader.NewSequencer(fetcher, log)

	return tui.Run(ctx, seq, tui.Options{
		Debounce: cfg.Client.Debounce,
		PageSize: cfg.Client.PageSize,
		Logger:   log,
	})
}
