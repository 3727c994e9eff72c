// Package cli implements signupctl, the operator CLI for the sign-up
// data store.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/deppfellow/go-signup/internal/config"
	"github.com/deppfellow/go-signup/internal/logger"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Build information, set with -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// SetupFunc builds the application container for one command. Logs go to
// logOut.
type SetupFunc func(opts *RootOptions, logOut io.Writer) (*server.Server, error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Timeout time.Duration

	setup SetupFunc
}

// NewRootCommand creates the root command. A nil setup loads the
// configuration from the environment.
func NewRootCommand(setup SetupFunc) *cobra.Command {
	if setup == nil {
		setup = setupFromEnv
	}
	opts := &RootOptions{setup: setup}

	cmd := &cobra.Command{
		Use:           "signupctl",
		Short:         "Operate the sign-up data store",
		Long:          "signupctl connects to the configured document store to check it, maintain its unique indexes and manage users.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "deadline for the whole command")

	cmd.AddCommand(NewPingCommand(opts))
	cmd.AddCommand(NewInitIndexesCommand(opts))
	cmd.AddCommand(NewExistsCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSignupCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func setupFromEnv(opts *RootOptions, logOut io.Writer) (*server.Server, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability, logOut)
	if err != nil {
		return nil, errors.Wrap(err, "could not initialize logger")
	}

	return server.New(cfg, loggerService.Logger(), loggerService)
}

// withServer builds the container, runs fn under the command deadline and
// shuts the container down afterwards.
func withServer(opts *RootOptions, cmd *cobra.Command, fn func(ctx context.Context, srv *server.Server) error) (err error) {
	srv, err := opts.setup(opts, cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "setup failed", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	defer func() {
		if shutdownErr := srv.Shutdown(context.Background()); shutdownErr != nil {
			srv.Logger.Error().Err(shutdownErr).Msg("shutdown failed")
			if err == nil {
				err = shutdownErr
			}
		}
	}()

	return fn(ctx, srv)
}
