package crud

import "github.com/ffi-hr/portal/internal/core/formerrors"

// Row is a table row with its identity and edit flag.
type Row[T any] struct {
	Key      string `json:"key"`
	Item     T      `json:"item"`
	Editable bool   `json:"editable"`
}

type DialogView[V any] struct {
	Open       bool              `json:"open"`
	Submitting bool              `json:"submitting"`
	Key        string            `json:"key,omitempty"`
	Values     V                 `json:"values"`
	Errors     formerrors.Errors `json:"errors,omitempty"`
	Form       *Form             `json:"form,omitempty"`
}

// View is the render instruction of a CRUD page.
type View[T, C, U any] struct {
	Page    string `json:"page"`
	Title   string `json:"title"`
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
	// Loading is set while a load runs behind rows that are still shown.
	Loading    bool          `json:"loading"`
	Rows       []Row[T]      `json:"rows"`
	Total      int           `json:"total"`
	PageNumber int           `json:"page_number"`
	PageSize   int           `json:"page_size"`
	Create     DialogView[C] `json:"create"`
	Edit       DialogView[U] `json:"edit"`
}

// View renders the current state. When several conditions hold the order
// is forbidden, loading without rows, error without rows, empty, ok. Cached
// rows stay visible while a newer load runs or after it failed.
func (d *Driver[T, C, U]) View() View[T, C, U] {
	d.mu.Lock()
	defer d.mu.Unlock()

	v := View[T, C, U]{
		Page:       d.cfg.Name,
		Title:      d.cfg.Label,
		Total:      d.total,
		PageNumber: d.page,
		PageSize:   d.cfg.PageSize,
		Rows:       []Row[T]{},
		Create: DialogView[C]{
			Open:       d.create.open,
			Submitting: d.create.submitting,
			Values:     d.create.values,
			Errors:     d.create.errors,
			Form:       d.cfg.CreateForm,
		},
		Edit: DialogView[U]{
			Open:       d.edit.open,
			Submitting: d.edit.submitting,
			Key:        d.edit.key,
			Values:     d.edit.values,
			Errors:     d.edit.errors,
			Form:       d.cfg.EditForm,
		},
	}

	hasRows := len(d.rows) > 0
	switch {
	case d.forbidden:
		v.State = StateForbidden
		v.Rows = []Row[T]{}
		v.Create = DialogView[C]{}
		v.Edit = DialogView[U]{}
		return v
	case d.state == StateLoading && !hasRows:
		v.State = StateLoading
	case d.state == StateError && !hasRows:
		v.State = StateError
		v.Message = d.message
	case !hasRows:
		v.State = StateEmpty
	default:
		v.State = StateOK
		v.Loading = d.state == StateLoading
		if d.state == StateError {
			v.Message = d.message
		}
	}

	for _, r := range d.rows {
		editable := d.cfg.InitialEdit != nil
		if editable && d.cfg.DisableEdit != nil {
			editable = !d.cfg.DisableEdit(r)
		}
		v.Rows = append(v.Rows, Row[T]{Key: d.src.RowKey(r), Item: r, Editable: editable})
	}
	return v
}

// State returns the current render state.
func (d *Driver[T, C, U]) State() State { return d.View().State }
