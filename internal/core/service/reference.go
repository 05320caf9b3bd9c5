package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// ReferenceSource adapts the reference API of one kind to crud.Source.
type ReferenceSource[In any] struct {
	API  ports.ReferenceAPI
	Kind domain.ReferenceKind
}

func (s ReferenceSource[In]) FetchList(ctx context.Context, p ports.ListParams) (envelope.Response[envelope.Page[domain.ReferenceEntity]], error) {
	return s.API.List(ctx, s.Kind, p)
}

func (s ReferenceSource[In]) CreateItem(ctx context.Context, in In) (envelope.Response[domain.ReferenceEntity], error) {
	return s.API.Create(ctx, s.Kind, in)
}

func (s ReferenceSource[In]) UpdateItem(ctx context.Context, key string, in In) (envelope.Response[domain.ReferenceEntity], error) {
	return s.API.Update(ctx, s.Kind, key, in)
}

func (s ReferenceSource[In]) RowKey(row domain.ReferenceEntity) string { return row.ID.String() }

// ReferencePage is the CRUD page of one reference kind. Form values always
// arrive as a ReferenceInput; the page converts them to the kind's payload.
type ReferencePage interface {
	Kind() domain.ReferenceKind
	Mount(ctx context.Context, page int) error
	SetPage(ctx context.Context, page int) error
	Retry(ctx context.Context) error
	OpenCreate() error
	CancelCreate()
	SubmitCreate(ctx context.Context, in domain.ReferenceInput) (crud.Outcome, error)
	OpenEdit(key string) error
	CancelEdit()
	SubmitEdit(ctx context.Context, in domain.ReferenceInput) (crud.Outcome, error)
	State() crud.State
	// Snapshot is the page's crud.View, ready to be rendered.
	Snapshot() any
}

type ReferenceOptions struct {
	PageSize    int
	Validator   *validator.Validate
	Notifier    ports.Notifier
	Scheduler   ports.Scheduler
	ScheduleKey string
	Hooks       crud.Hooks
	Log         zerolog.Logger
}

type referencePage[In any] struct {
	kind    domain.ReferenceKind
	convert func(domain.ReferenceInput) In
	*crud.Driver[domain.ReferenceEntity, In, In]
}

func (p *referencePage[In]) Kind() domain.ReferenceKind { return p.kind }

func (p *referencePage[In]) SubmitCreate(ctx context.Context, in domain.ReferenceInput) (crud.Outcome, error) {
	return p.Driver.SubmitCreate(ctx, p.convert(in))
}

func (p *referencePage[In]) SubmitEdit(ctx context.Context, in domain.ReferenceInput) (crud.Outcome, error) {
	return p.Driver.SubmitEdit(ctx, p.convert(in))
}

func (p *referencePage[In]) Snapshot() any { return p.Driver.View() }

// NewReferencePage builds the page of kind. Sponsors get the payload whose
// name is optional.
func NewReferencePage(api ports.ReferenceAPI, kind domain.ReferenceKind, opts ReferenceOptions) ReferencePage {
	if kind == domain.KindSponsor {
		return newReferencePage(api, kind, opts, func(in domain.ReferenceInput) domain.SponsorInput {
			in = trimReference(in)
			return domain.SponsorInput{Code: in.Code, Name: in.Name, Description: in.Description}
		}, func(row domain.ReferenceEntity) domain.SponsorInput {
			return domain.SponsorInput{Code: row.Code, Name: row.Name, Description: row.Description}
		})
	}
	return newReferencePage(api, kind, opts, trimReference, func(row domain.ReferenceEntity) domain.ReferenceInput {
		return domain.ReferenceInput{Code: row.Code, Name: row.Name, Description: row.Description}
	})
}

func newReferencePage[In any](api ports.ReferenceAPI, kind domain.ReferenceKind, opts ReferenceOptions, convert func(domain.ReferenceInput) In, initialEdit func(domain.ReferenceEntity) In) *referencePage[In] {
	key := string(kind)
	if opts.ScheduleKey != "" {
		key = opts.ScheduleKey + ":" + key
	}
	d := crud.NewDriver[domain.ReferenceEntity, In, In](ReferenceSource[In]{API: api, Kind: kind}, crud.Config[domain.ReferenceEntity, In, In]{
		Name:        string(kind),
		Label:       kind.Label(),
		PageSize:    opts.PageSize,
		CreateForm:  ReferenceForm(kind, "New "+strings.ToLower(kind.Label())),
		EditForm:    ReferenceForm(kind, "Edit "+strings.ToLower(kind.Label())),
		InitialEdit: initialEdit,
		Validator:   opts.Validator,
		Notifier:    opts.Notifier,
		Scheduler:   opts.Scheduler,
		ScheduleKey: key,
		Hooks:       opts.Hooks,
		Log:         opts.Log,
	})
	return &referencePage[In]{kind: kind, convert: convert, Driver: d}
}

// ReferenceForm describes the dialog fields of kind.
func ReferenceForm(kind domain.ReferenceKind, title string) *crud.Form {
	return &crud.Form{
		Title: title,
		Fields: []crud.FormField{
			{Name: "code", Label: "Code", Kind: crud.FieldText, Required: true, MaxLength: 10},
			{Name: "name", Label: "Name", Kind: crud.FieldText, Required: kind.NameRequired(), MaxLength: 100},
			{Name: "description", Label: "Description", Kind: crud.FieldTextArea, MaxLength: 500},
		},
	}
}

func trimReference(in domain.ReferenceInput) domain.ReferenceInput {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}
