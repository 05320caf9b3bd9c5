package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the hrctl command tree.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	app := newApp(opts)

	cmd := &cobra.Command{
		Use:           "hrctl",
		Short:         "Terminal client of the FFI HR backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd.Context())
		},
	}
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)
	cmd.PersistentFlags().StringVar(&app.baseURL, "base-url", "", "backend base URL (overrides config.yaml)")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newRefCmd(app))
	cmd.AddCommand(newEmployeesCmd(app))
	cmd.AddCommand(newAttendanceCmd(app))
	return cmd
}

// Run executes args and returns the process exit code.
func Run(ctx context.Context, opts Options, args []string) int {
	cmd := NewRootCmd(opts)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(cmd.ErrOrStderr(), styles.Error.Render(err.Error()))
		}
		return 1
	}
	return 0
}
