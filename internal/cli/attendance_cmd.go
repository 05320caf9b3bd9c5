package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
)

func newAttendanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Daily check-in and check-out",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "today",
		Short: "Show today's attendance record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.user(); err != nil {
				return err
			}
			view, err := app.attendance.Today(cmd.Context())
			if err != nil {
				return app.fail(err)
			}
			more, err := renderPage(app.opts.Out, view.State, view.Message, "Not checked in today.")
			if !more {
				return err
			}
			renderTable(app.opts.Out, attendanceHeaders, attendanceRows(view.Data.Items))
			return nil
		},
	})

	cmd.AddCommand(attendanceAction(app, "check-in", "Check in for today", app.checkIn, "Checked in"))
	cmd.AddCommand(attendanceAction(app, "check-out", "Check out for today", app.checkOut, "Checked out"))
	return cmd
}

var attendanceHeaders = []string{"Date", "Check in", "Check out", "Status", "Source"}

func attendanceRows(records []domain.AttendanceRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{r.Date, deref(r.CheckInAt), deref(r.CheckOutAt), string(r.Status), string(r.Source)})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func (a *App) checkIn(ctx context.Context) (crud.Result[domain.AttendanceRecord], error) {
	return a.attendance.CheckIn(ctx)
}

func (a *App) checkOut(ctx context.Context) (crud.Result[domain.AttendanceRecord], error) {
	return a.attendance.CheckOut(ctx)
}

func attendanceAction(app *App, use, short string, run func(context.Context) (crud.Result[domain.AttendanceRecord], error), saved string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.user(); err != nil {
				return err
			}
			res, err := run(cmd.Context())
			if err != nil {
				return app.fail(err)
			}
			if err := renderResult(app.opts.Out, app.opts.Err, res, saved); err != nil {
				return err
			}
			renderTable(app.opts.Out, attendanceHeaders, attendanceRows([]domain.AttendanceRecord{res.Data}))
			return nil
		},
	}
}
