package command

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/groovix/groovix/internal/app"
	"github.com/groovix/groovix/internal/server"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "serve the account and session JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (runErr error) {
			cfg, logger, store, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					runErr = errors.Join(runErr, err)
				}
			}()

			if cfg.TokenSecret == "" {
				logger.WarnContext(cmd.Context(),
					"no token signing secret configured; logins will fail until one is set",
				)
			}

			grp, ctx := errgroup.WithContext(cmd.Context())

			listener, err := server.Listen(ctx, cfg.Address)
			if err != nil {
				return err
			}

			srv := app.New(cfg, logger, store)

			logger.InfoContext(ctx,
				"starting API server...",
				slog.String("address", cfg.Address),
			)
			server.Serve(ctx, grp, srv.Server, listener)
			return grp.Wait()
		},
	}
}
