package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/formerrors"
)

var styles = struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Header  lipgloss.Style
	Field   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	Header:  lipgloss.NewStyle().Bold(true).Padding(0, 1),
	Field:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.String())
}

// renderPage prints the non-ok states of a page. It reports whether rows
// should follow; a failed load becomes the command error.
func renderPage(w io.Writer, state crud.State, message, emptyText string) (bool, error) {
	switch state {
	case crud.StateForbidden:
		fmt.Fprintln(w, styles.Error.Render("You do not have access to this page."))
		return false, errReported
	case crud.StateError:
		fmt.Fprintln(w, styles.Error.Render(message))
		return false, errReported
	case crud.StateEmpty:
		fmt.Fprintln(w, styles.Muted.Render(emptyText))
		return false, nil
	}
	return true, nil
}

// renderResult prints a mutation outcome. Anything but saved is an error.
func renderResult[V any](out, errw io.Writer, res crud.Result[V], saved string) error {
	switch res.Outcome {
	case crud.OutcomeSaved:
		if saved == "" {
			saved = res.Message
		}
		fmt.Fprintln(out, styles.Success.Render(saved))
		return nil
	case crud.OutcomeInvalid:
		renderFieldErrors(errw, res.Errors)
		return errReported
	case crud.OutcomeForbidden:
		fmt.Fprintln(errw, styles.Error.Render(res.Message))
		return errReported
	}
	fmt.Fprintln(errw, styles.Error.Render(res.Message))
	return errReported
}

func renderFieldErrors(w io.Writer, errs formerrors.Errors) {
	for _, fe := range errs {
		msg := strings.Join(fe.Messages, " ")
		if fe.Field == formerrors.FormLevel {
			fmt.Fprintln(w, styles.Error.Render(msg))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styles.Field.Render(fe.Field+":"), msg)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
