package cli

import (
	"context"
	"fmt"

	"github.com/deppfellow/go-signup/internal/repository"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/spf13/cobra"
)

// NewPingCommand creates the ping command.
func NewPingCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Connect to the document store and check that it answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServer(rootOpts, cmd, func(ctx context.Context, srv *server.Server) error {
				if err := srv.DB.Ping(ctx); err != nil {
					return WrapExitError(ExitFailure, "ping failed", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %s is reachable\n", srv.DB.Name())
				return nil
			})
		},
	}
}

type initIndexesOptions struct {
	collection string
	fields     []string
	width      int
}

// NewInitIndexesCommand creates the init-indexes command.
func NewInitIndexesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &initIndexesOptions{}

	cmd := &cobra.Command{
		Use:   "init-indexes",
		Short: "Ensure unique indexes on a collection",
		Long: `Ensure a unique ascending index on every --field of --collection.

Indexes that already exist are left alone. The command stops at the first
index that cannot be built; indexes created before it stay in place.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.fields) == 0 {
				return NewExitError(ExitCommandError, "at least one --field is required")
			}
			if opts.width < 0 {
				return NewExitError(ExitCommandError, "--width must not be negative")
			}

			return withServer(rootOpts, cmd, func(ctx context.Context, srv *server.Server) error {
				if err := srv.DB.InitDB(ctx, opts.collection, opts.fields, opts.width); err != nil {
					return WrapExitError(ExitFailure, "index initialization failed", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ensured %d unique index(es) on %s\n", len(opts.fields), opts.collection)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", repository.UserCollection, "collection to index")
	cmd.Flags().StringSliceVar(&opts.fields, "field", []string{"email"}, "field to keep unique (repeatable)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "index requests in flight at once (0 uses the configured width)")

	return cmd
}

type existsOptions struct {
	collection string
	field      string
	value      string
}

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &existsOptions{}

	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether a document with field equal to value exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.field == "" {
				return NewExitError(ExitCommandError, "--field is required")
			}

			return withServer(rootOpts, cmd, func(ctx context.Context, srv *server.Server) error {
				found, err := srv.DB.DocumentExists(ctx, opts.field, opts.value, opts.collection)
				if err != nil {
					return WrapExitError(ExitFailure, "lookup failed", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), found)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", repository.UserCollection, "collection to search")
	cmd.Flags().StringVar(&opts.field, "field", "", "field to match")
	cmd.Flags().StringVar(&opts.value, "value", "", "value the field must equal")

	return cmd
}

type resetOptions struct {
	collection string
	yes        bool
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &resetOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every document in a collection",
		Long: `Delete every document in --collection. There is no filter and no undo.

The command refuses to run without --yes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.yes {
				return NewExitError(ExitCommandError, fmt.Sprintf("refusing to delete every document in %s without --yes", opts.collection))
			}

			return withServer(rootOpts, cmd, func(ctx context.Context, srv *server.Server) error {
				deleted, err := srv.DB.RemoveAllDocuments(ctx, opts.collection)
				if err != nil {
					return WrapExitError(ExitFailure, "reset failed", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d document(s) from %s\n", deleted, opts.collection)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.collection, "collection", repository.UserCollection, "collection to empty")
	cmd.Flags().BoolVar(&opts.yes, "yes", false, "confirm the deletion")

	return cmd
}
