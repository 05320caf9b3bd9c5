package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

func newRefCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ref",
		Short: "Manage departments, positions, task groups and sponsors",
	}
	cmd.AddCommand(newRefListCmd(app))
	cmd.AddCommand(newRefCreateCmd(app))
	cmd.AddCommand(newRefUpdateCmd(app))
	return cmd
}

func parseKind(arg string) (domain.ReferenceKind, error) {
	kind, err := domain.ParseReferenceKind(arg)
	if err != nil {
		names := make([]string, len(domain.ReferenceKinds))
		for i, k := range domain.ReferenceKinds {
			names[i] = string(k)
		}
		return "", fmt.Errorf("unknown entity %q, expected one of %s", arg, strings.Join(names, ", "))
	}
	return kind, nil
}

// referencePayload trims the fields and picks the payload type of kind.
func referencePayload(kind domain.ReferenceKind, in domain.ReferenceInput) any {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if kind == domain.KindSponsor {
		return domain.SponsorInput(in)
	}
	return in
}

func referenceFlags(cmd *cobra.Command, in *domain.ReferenceInput) {
	cmd.Flags().StringVar(&in.Code, "code", "", "short code, at most 10 characters")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Description, "description", "", "optional description")
}

func newRefListCmd(app *App) *cobra.Command {
	var params ports.ListParams

	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "List one page of an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if _, err := app.user(); err != nil {
				return err
			}

			view, err := crud.Fetch(cmd.Context(), func(ctx context.Context) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error) {
				return app.client.Reference().List(ctx, kind, params)
			}, crud.EmptyPage[domain.ReferenceEntity])
			if err != nil {
				return app.fail(err)
			}
			more, err := renderPage(app.opts.Out, view.State, view.Message, "No "+strings.ToLower(kind.Label())+" records yet.")
			if !more {
				return err
			}

			rows := make([][]string, 0, view.Data.Len())
			for _, r := range view.Data.Items {
				rows = append(rows, []string{r.ID.String(), r.Code, orDash(r.Name), orDash(r.Description)})
			}
			renderTable(app.opts.Out, []string{"ID", "Code", "Name", "Description"}, rows)
			fmt.Fprintln(app.opts.Out, styles.Muted.Render(fmt.Sprintf("page %d, %d total", params.Page, view.Data.Total)))
			return nil
		},
	}

	cmd.Flags().IntVar(&params.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&params.PageSize, "page-size", domain.DefaultPageSize, "rows per page")
	return cmd
}

func newRefCreateCmd(app *App) *cobra.Command {
	var in domain.ReferenceInput

	cmd := &cobra.Command{
		Use:   "create <entity> --code <code> --name <name>",
		Short: "Create an entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if _, err := app.user(); err != nil {
				return err
			}

			payload := referencePayload(kind, in)
			res, err := crud.Submit(cmd.Context(), app.validate, payload, func(ctx context.Context) (envelope.Response[domain.ReferenceEntity], error) {
				return app.client.Reference().Create(ctx, kind, payload)
			}, "Failed to create "+strings.ToLower(kind.Label()))
			if err != nil {
				return app.fail(err)
			}
			return renderResult(app.opts.Out, app.opts.Err, res, fmt.Sprintf("%s %s created (id %s)", kind.Label(), res.Data.Code, res.Data.ID))
		},
	}
	referenceFlags(cmd, &in)
	return cmd
}

func newRefUpdateCmd(app *App) *cobra.Command {
	var in domain.ReferenceInput

	cmd := &cobra.Command{
		Use:   "update <entity> <id> --code <code> --name <name>",
		Short: "Update an entity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			if _, err := app.user(); err != nil {
				return err
			}

			id := args[1]
			payload := referencePayload(kind, in)
			res, err := crud.Submit(cmd.Context(), app.validate, payload, func(ctx context.Context) (envelope.Response[domain.ReferenceEntity], error) {
				return app.client.Reference().Update(ctx, kind, id, payload)
			}, "Failed to update "+strings.ToLower(kind.Label()))
			if err != nil {
				return app.fail(err)
			}
			return renderResult(app.opts.Out, app.opts.Err, res, kind.Label()+" updated")
		},
	}
	referenceFlags(cmd, &in)
	return cmd
}
