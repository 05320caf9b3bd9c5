package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/service"
)

func newLoginCmd(app *App) *cobra.Command {
	var in service.LoginInput

	cmd := &cobra.Command{
		Use:   "login --email <email> [--password <password>]",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("HRCTL_PASSWORD")
			}
			ctx := cmd.Context()
			// A new login replaces the stored session.
			if app.machine.Snapshot().IsAuthenticated() {
				if err := app.machine.Logout(ctx); err != nil {
					return err
				}
			}

			res, err := app.auth.Login(ctx, in)
			if err != nil {
				return app.fail(err)
			}
			if res.Outcome != crud.OutcomeSaved {
				return renderResult(app.opts.Out, app.opts.Err, res.Result, "")
			}
			u := res.Data.User
			fmt.Fprintf(app.opts.Out, "%s %s (%s)\n", styles.Success.Render("Logged in as"), u.Email, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "account password (default $HRCTL_PASSWORD)")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.opts.Out, styles.Success.Render("Logged out"))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			u, err := app.user()
			if err != nil {
				return err
			}
			fmt.Fprintf(app.opts.Out, "%s %s\n%s %s\n%s %s\n",
				styles.Title.Render("id:   "), u.ID,
				styles.Title.Render("email:"), u.Email,
				styles.Title.Render("role: "), u.Role)
			return nil
		},
	}
}
