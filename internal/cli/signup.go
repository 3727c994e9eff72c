package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/go-signup/internal/errs"
	"github.com/deppfellow/go-signup/internal/server"
	"github.com/deppfellow/go-signup/internal/service"
	"github.com/spf13/cobra"
)

// NewSignupCommand creates the signup command, which registers a user the
// same way the sign-up endpoint does.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	input := &service.SignupInput{}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServer(rootOpts, cmd, func(ctx context.Context, srv *server.Server) error {
				if err := srv.Start(ctx); err != nil {
					return WrapExitError(ExitFailure, "startup failed", err)
				}

				services, err := service.NewService(srv, srv.Repositories)
				if err != nil {
					return err
				}

				user, err := services.Signup.Register(ctx, input)
				if err != nil {
					var httpErr *errs.HTTPError
					if errors.As(err, &httpErr) {
						return NewExitError(ExitFailure, formatHTTPError(httpErr))
					}
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.ID, user.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&input.Email, "email", "", "email address of the new user")
	cmd.Flags().StringVar(&input.Password, "password", "", "password of the new user")

	return cmd
}

func formatHTTPError(e *errs.HTTPError) string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	for _, fe := range e.Errors {
		msg += fmt.Sprintf("\n  %s %s", fe.Field, fe.Error)
	}
	return msg
}
