package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/service"
)

func newEmployeesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Browse the employee directory",
	}
	cmd.AddCommand(newEmployeesListCmd(app))
	return cmd
}

func newEmployeesListCmd(app *App) *cobra.Command {
	var (
		search   string
		filters  domain.EmployeeFilters
		page     int
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list [--search <text>] [--status ACTIVE]",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.user()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			change := service.FilterChange{Search: &search, Filters: &filters}
			if cmd.Flags().Changed("page-size") {
				change.PageSize = &pageSize
			}
			if cmd.Flags().Changed("page") {
				change.Page = &page
			}
			if _, err := app.employees.ApplyFilters(ctx, u.ID.String(), change); err != nil {
				return err
			}

			view, err := app.employees.List(ctx, u.ID.String())
			if err != nil {
				return app.fail(err)
			}
			more, err := renderPage(app.opts.Out, view.State, view.Message, "No employees match.")
			if !more {
				return err
			}

			rows := make([][]string, 0, view.Data.Len())
			for _, e := range view.Data.Items {
				rows = append(rows, []string{
					orDash(e.EmployeeID), e.FullName, orDash(e.Email), orDash(e.Department), orDash(string(e.EmploymentStatus)),
				})
			}
			renderTable(app.opts.Out, []string{"Employee", "Name", "Email", "Department", "Status"}, rows)
			fmt.Fprintln(app.opts.Out, styles.Muted.Render(fmt.Sprintf("page %d, %d total", view.Filters.Page, view.Data.Total)))
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "match name, email or employee number")
	cmd.Flags().StringVar(&filters.Status, "status", "", "ACTIVE, SUSPENDED or TERMINATED")
	cmd.Flags().StringVar(&filters.Department, "department", "", "department name")
	cmd.Flags().StringVar(&filters.Position, "position", "", "position name")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", domain.DefaultPageSize, "rows per page")
	return cmd
}
