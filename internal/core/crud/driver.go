package crud

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/formerrors"
	"github.com/ffi-hr/portal/internal/core/ports"
)

// ErrEditDisabled is returned when opening edit on a row the page locks.
var ErrEditDisabled = errors.New("crud: editing is disabled for this row")

// ErrRowNotFound is returned when opening edit on a key that is not loaded.
var ErrRowNotFound = errors.New("crud: row not found on the current page")

// Source is the capability contract of an entity: list, create and update
// calls plus the row identity accessor.
type Source[T, C, U any] interface {
	FetchList(ctx context.Context, p ports.ListParams) (envelope.Response[envelope.Page[T]], error)
	CreateItem(ctx context.Context, in C) (envelope.Response[T], error)
	UpdateItem(ctx context.Context, key string, in U) (envelope.Response[T], error)
	RowKey(row T) string
}

// Config holds the optional parts of a page. Name and Label are required.
type Config[T, C, U any] struct {
	Name     string
	Label    string
	PageSize int

	CreateForm *Form
	EditForm   *Form

	// InitialCreate seeds the create dialog. Nil means the zero value.
	InitialCreate func() C
	// InitialEdit maps a row to the edit dialog values. Required for edit.
	InitialEdit func(row T) U
	// TransformCreate and TransformEdit map validated values to payloads.
	TransformCreate func(C) C
	TransformEdit   func(row T, in U) U
	BeforeOpenEdit  func(row T)
	DisableEdit     func(row T) bool

	Validator *validator.Validate
	Notifier  ports.Notifier
	// Scheduler runs reloads after a successful mutation. Nil reloads inline.
	Scheduler   ports.Scheduler
	ScheduleKey string
	Hooks       Hooks
	Log         zerolog.Logger
}

type dialog[V any] struct {
	open       bool
	submitting bool
	key        string
	values     V
	errors     formerrors.Errors
}

// Driver is the controller of one list page with create and edit dialogs.
// It is safe for concurrent use.
type Driver[T, C, U any] struct {
	src Source[T, C, U]
	cfg Config[T, C, U]

	mu        sync.Mutex
	state     State
	message   string
	rows      []T
	total     int
	page      int
	forbidden bool
	gen       uint64

	create dialog[C]
	edit   dialog[U]
	editOf T
}

func NewDriver[T, C, U any](src Source[T, C, U], cfg Config[T, C, U]) *Driver[T, C, U] {
	if cfg.PageSize <= 0 {
		cfg.PageSize = domain.DefaultPageSize
	}
	if cfg.ScheduleKey == "" {
		cfg.ScheduleKey = cfg.Name
	}
	cfg.Log = cfg.Log.With().Str("component", "crud").Str("page", cfg.Name).Logger()
	return &Driver[T, C, U]{src: src, cfg: cfg, state: StateLoading, page: 1}
}

// Mount starts a fresh visit of the page: the forbidden flag and dialogs
// are reset and page is loaded.
func (d *Driver[T, C, U]) Mount(ctx context.Context, page int) error {
	d.mu.Lock()
	d.forbidden = false
	d.create = dialog[C]{}
	d.edit = dialog[U]{}
	d.mu.Unlock()
	return d.load(ctx, page)
}

// SetPage loads another page.
func (d *Driver[T, C, U]) SetPage(ctx context.Context, page int) error {
	return d.load(ctx, page)
}

// Retry reloads the current page after an error.
func (d *Driver[T, C, U]) Retry(ctx context.Context) error {
	d.mu.Lock()
	page := d.page
	d.mu.Unlock()
	return d.load(ctx, page)
}

// load enters loading and applies the response only if no newer load was
// issued meanwhile. A forbidden page does not load again until remounted.
func (d *Driver[T, C, U]) load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	d.mu.Lock()
	if d.forbidden {
		d.mu.Unlock()
		return nil
	}
	d.gen++
	gen := d.gen
	d.state = StateLoading
	d.message = ""
	d.page = page
	d.mu.Unlock()

	resp, err := d.src.FetchList(ctx, ports.ListParams{Page: page, PageSize: d.cfg.PageSize})

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen || d.forbidden {
		d.cfg.Log.Debug().Uint64("generation", gen).Uint64("latest", d.gen).Msg("discarding stale list response")
		d.cfg.Hooks.stale(d.cfg.Name)
		return nil
	}

	switch {
	case err != nil:
		switch apierror.Classify(err) {
		case apierror.KindUnauthorized:
			d.state = StateError
			d.message = "Session expired"
			return fmt.Errorf("load %s: %w", d.cfg.Name, err)
		case apierror.KindForbidden:
			d.forbidden = true
			d.state = StateForbidden
		default:
			d.state = StateError
			d.message = apierror.Message(err, loadFailed)
		}
	case !resp.OK():
		d.state = StateError
		d.message = messageOr(resp.Message, loadFailed)
	case resp.Data.Len() == 0:
		d.state = StateEmpty
		d.rows = nil
		d.total = resp.Data.Total
	default:
		d.state = StateOK
		d.rows = resp.Data.Items
		d.total = resp.Data.Total
	}
	d.cfg.Hooks.loaded(d.cfg.Name, d.state)
	return nil
}

// reload re-runs the current page after a mutation.
func (d *Driver[T, C, U]) reload(ctx context.Context) error {
	d.mu.Lock()
	page, forbidden := d.page, d.forbidden
	d.mu.Unlock()
	if forbidden {
		return nil
	}

	if d.cfg.Scheduler == nil {
		return d.load(ctx, page)
	}
	d.mu.Lock()
	d.state = StateLoading
	d.mu.Unlock()
	d.cfg.Scheduler.Schedule(d.cfg.ScheduleKey, func(ctx context.Context) {
		if err := d.load(ctx, page); err != nil {
			d.cfg.Log.Info().Err(err).Msg("background reload stopped")
		}
	})
	return nil
}

// OpenCreate opens the create dialog with its initial values.
func (d *Driver[T, C, U]) OpenCreate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.forbidden {
		return domain.ErrForbidden
	}
	var initial C
	if d.cfg.InitialCreate != nil {
		initial = d.cfg.InitialCreate()
	}
	d.create = dialog[C]{open: true, values: initial}
	return nil
}

// CancelCreate closes and resets the create dialog.
func (d *Driver[T, C, U]) CancelCreate() {
	d.mu.Lock()
	d.create = dialog[C]{}
	d.mu.Unlock()
}

// SubmitCreate sends the create dialog. While a submission is outstanding
// further submissions are rejected with ErrSubmissionInFlight.
func (d *Driver[T, C, U]) SubmitCreate(ctx context.Context, values C) (Outcome, error) {
	d.mu.Lock()
	if !d.create.open {
		d.mu.Unlock()
		return "", domain.ErrDialogClosed
	}
	if d.create.submitting {
		d.mu.Unlock()
		return "", domain.ErrSubmissionInFlight
	}
	d.create.values = values
	if errs := d.validate(values); errs != nil {
		d.create.errors = errs
		d.mu.Unlock()
		return OutcomeInvalid, nil
	}
	d.create.submitting = true
	d.create.errors = nil
	payload := values
	if d.cfg.TransformCreate != nil {
		payload = d.cfg.TransformCreate(values)
	}
	d.mu.Unlock()

	resp, err := d.src.CreateItem(ctx, payload)
	res, err := classifyFailureOrSaved(resp, err, "Failed to create "+lower(d.cfg.Label))

	d.mu.Lock()
	d.create.submitting = false
	switch res.Outcome {
	case OutcomeSaved:
		d.create = dialog[C]{}
		d.mu.Unlock()
		d.notify(ports.NotifySuccess, messageOr(res.Message, d.cfg.Label+" created"))
		return OutcomeSaved, d.reloadAfterSave(ctx)
	case OutcomeInvalid:
		d.create.errors = res.Errors
	case OutcomeForbidden:
		d.create = dialog[C]{}
		d.forbidden = true
		d.state = StateForbidden
	case OutcomeFailed:
		defer d.notify(ports.NotifyError, res.Message)
	}
	d.mu.Unlock()
	return res.Outcome, err
}

// OpenEdit opens the edit dialog for the loaded row with the given key.
func (d *Driver[T, C, U]) OpenEdit(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.forbidden {
		return domain.ErrForbidden
	}
	row, ok := d.findRow(key)
	if !ok {
		return ErrRowNotFound
	}
	if d.cfg.DisableEdit != nil && d.cfg.DisableEdit(row) {
		return ErrEditDisabled
	}
	if d.cfg.BeforeOpenEdit != nil {
		d.cfg.BeforeOpenEdit(row)
	}
	var initial U
	if d.cfg.InitialEdit != nil {
		initial = d.cfg.InitialEdit(row)
	}
	d.edit = dialog[U]{open: true, key: key, values: initial}
	d.editOf = row
	return nil
}

// CancelEdit closes and resets the edit dialog.
func (d *Driver[T, C, U]) CancelEdit() {
	d.mu.Lock()
	d.edit = dialog[U]{}
	var zero T
	d.editOf = zero
	d.mu.Unlock()
}

// SubmitEdit sends the edit dialog for the row it was opened on.
func (d *Driver[T, C, U]) SubmitEdit(ctx context.Context, values U) (Outcome, error) {
	d.mu.Lock()
	if !d.edit.open {
		d.mu.Unlock()
		return "", domain.ErrDialogClosed
	}
	if d.edit.submitting {
		d.mu.Unlock()
		return "", domain.ErrSubmissionInFlight
	}
	d.edit.values = values
	if errs := d.validate(values); errs != nil {
		d.edit.errors = errs
		d.mu.Unlock()
		return OutcomeInvalid, nil
	}
	d.edit.submitting = true
	d.edit.errors = nil
	key := d.edit.key
	payload := values
	if d.cfg.TransformEdit != nil {
		payload = d.cfg.TransformEdit(d.editOf, values)
	}
	d.mu.Unlock()

	resp, err := d.src.UpdateItem(ctx, key, payload)
	res, err := classifyFailureOrSaved(resp, err, "Failed to update "+lower(d.cfg.Label))

	d.mu.Lock()
	d.edit.submitting = false
	switch res.Outcome {
	case OutcomeSaved:
		d.edit = dialog[U]{}
		d.mu.Unlock()
		d.notify(ports.NotifySuccess, messageOr(res.Message, d.cfg.Label+" updated"))
		return OutcomeSaved, d.reloadAfterSave(ctx)
	case OutcomeInvalid:
		d.edit.errors = res.Errors
	case OutcomeForbidden:
		d.edit = dialog[U]{}
		d.forbidden = true
		d.state = StateForbidden
	case OutcomeFailed:
		defer d.notify(ports.NotifyError, res.Message)
	}
	d.mu.Unlock()
	return res.Outcome, err
}

func (d *Driver[T, C, U]) reloadAfterSave(ctx context.Context) error {
	err := d.reload(ctx)
	if apierror.Classify(err) == apierror.KindUnauthorized {
		return err
	}
	return nil
}

// validate must be called with d.mu held.
func (d *Driver[T, C, U]) validate(values any) formerrors.Errors {
	if d.cfg.Validator == nil {
		return nil
	}
	if err := d.cfg.Validator.Struct(values); err != nil {
		if errs := formerrors.FromValidation(err); errs != nil {
			return errs
		}
		d.cfg.Log.Warn().Err(err).Msg("local validation could not run")
	}
	return nil
}

func (d *Driver[T, C, U]) findRow(key string) (T, bool) {
	for _, r := range d.rows {
		if d.src.RowKey(r) == key {
			return r, true
		}
	}
	var zero T
	return zero, false
}

func (d *Driver[T, C, U]) notify(level ports.NotificationLevel, msg string) {
	if d.cfg.Notifier == nil || msg == "" {
		return
	}
	d.cfg.Notifier.Notify(ports.Notification{Level: level, Message: msg})
}

func classifyFailureOrSaved[T any](resp envelope.Response[T], err error, fallback string) (Result[T], error) {
	failure := apierror.Check(resp, err)
	if failure == nil {
		return Result[T]{Outcome: OutcomeSaved, Data: resp.Data, Message: resp.Message}, nil
	}
	return classifyFailure[T](failure, fallback)
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
