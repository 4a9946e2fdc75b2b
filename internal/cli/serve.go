package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"railwatch/server/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tracker with its HTTP and websocket surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := loadConfig(resolveConfigDir())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.Run(ctx, appConfig(v))
		},
	}
}
