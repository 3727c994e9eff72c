package cli

import (
	"context"
	"time"

	"github.com/deppfellow/go-signup/internal/handler"
	"github.com/deppfellow/go-signup/internal/router"
	"github.com/deppfellow/go-signup/internal/service"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may take to finish.
const shutdownTimeout = 30 * time.Second

// NewServeCommand creates the serve command, which runs the sign-up HTTP
// API until the process is interrupted.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the sign-up HTTP API",
		Long: `Connect to the document store, ensure the user indexes and serve:

  GET  /status          store health
  POST /api/v1/signup   register a user

The server stops gracefully on SIGINT or SIGTERM. --timeout does not apply.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := rootOpts.setup(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return WrapExitError(ExitCommandError, "setup failed", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if err := srv.Start(ctx); err != nil {
				_ = srv.Shutdown(context.Background())
				return WrapExitError(ExitFailure, "startup failed", err)
			}

			services, err := service.NewService(srv, srv.Repositories)
			if err != nil {
				_ = srv.Shutdown(context.Background())
				return err
			}

			r := router.NewRouter(srv, handler.NewHandlers(srv, services))
			srv.SetupHTTPServer(r)

			serveErr := make(chan error, 1)
			go func() {
				serveErr <- srv.Serve()
			}()

			select {
			case err = <-serveErr:
			case <-ctx.Done():
				srv.Logger.Info().Msg("shutting down")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
				err = shutdownErr
			}
			if err != nil {
				return WrapExitError(ExitFailure, "server stopped", err)
			}
			return nil
		},
	}
}
