package crud

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/formerrors"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/pkg/validate"
)

func newDriver(src *stubSource, n ports.Notifier) *Driver[item, itemInput, itemInput] {
	return NewDriver[item, itemInput, itemInput](src, Config[item, itemInput, itemInput]{
		Name:        "departments",
		Label:       "Department",
		InitialEdit: func(r item) itemInput { return itemInput{Code: r.Code} },
		Validator:   validate.New(),
		Notifier:    n,
		Log:         zerolog.Nop(),
	})
}

func statusErr(status int) error {
	return &apierror.HTTPError{Status: status, Method: http.MethodGet, Path: "/api/hr/departments/"}
}

func TestLoad_EmptyList(t *testing.T) {
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		return page(), nil
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	assert.Equal(t, StateEmpty, d.State())
}

func TestLoad_RowsAndParams(t *testing.T) {
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		return page(item{ID: "1", Code: "HR"}, item{ID: "2", Code: "IT"}), nil
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 3))

	v := d.View()
	assert.Equal(t, StateOK, v.State)
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "2", v.Rows[1].Key)
	assert.True(t, v.Rows[0].Editable)
	assert.Equal(t, []ports.ListParams{{Page: 3, PageSize: domain.DefaultPageSize}}, src.listCalls())
}

func TestLoad_ErrorEnvelope(t *testing.T) {
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		return envelope.Failure[envelope.Page[item]]("Database unavailable", envelope.ErrorDetails{}), nil
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	v := d.View()
	assert.Equal(t, StateError, v.State)
	assert.Equal(t, "Database unavailable", v.Message)
}

func TestLoad_ServerErrorIsRetryable(t *testing.T) {
	fail := true
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		if fail {
			return envelope.Response[envelope.Page[item]]{}, statusErr(http.StatusInternalServerError)
		}
		return page(item{ID: "1"}), nil
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	assert.Equal(t, StateError, d.State())
	assert.Equal(t, "Internal Server Error", d.View().Message)

	fail = false
	require.NoError(t, d.Retry(context.Background()))
	assert.Equal(t, StateOK, d.State())
}

func TestLoad_ForbiddenIsTerminalForMount(t *testing.T) {
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		return envelope.Response[envelope.Page[item]]{}, statusErr(http.StatusForbidden)
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	assert.Equal(t, StateForbidden, d.State())

	require.NoError(t, d.SetPage(context.Background(), 2))
	require.NoError(t, d.Retry(context.Background()))
	assert.Len(t, src.listCalls(), 1, "no further fetch while forbidden")
	assert.ErrorIs(t, d.OpenCreate(), domain.ErrForbidden)

	require.NoError(t, d.Mount(context.Background(), 1))
	assert.Len(t, src.listCalls(), 2, "a new mount fetches again")
}

func TestLoad_UnauthorizedPropagates(t *testing.T) {
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		return envelope.Response[envelope.Page[item]]{}, statusErr(http.StatusUnauthorized)
	}}
	d := newDriver(src, nil)
	err := d.Mount(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.NotEqual(t, StateForbidden, d.State())
}

func TestLoad_StaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	src := &stubSource{listFn: func(_ context.Context, p ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		if p.Page == 1 {
			close(started)
			<-release
			return page(item{ID: "old"}), nil
		}
		return page(item{ID: "new"}), nil
	}}
	var stale int
	d := NewDriver[item, itemInput, itemInput](src, Config[item, itemInput, itemInput]{
		Name:  "departments",
		Label: "Department",
		Hooks: Hooks{StaleDiscarded: func(string) { stale++ }},
		Log:   zerolog.Nop(),
	})

	done := make(chan error)
	go func() { done <- d.Mount(context.Background(), 1) }()
	<-started
	require.NoError(t, d.SetPage(context.Background(), 2))
	close(release)
	require.NoError(t, <-done)

	v := d.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "new", v.Rows[0].Key)
	assert.Equal(t, 2, v.PageNumber)
	assert.Equal(t, 1, stale)
}

func TestView_CachedRowsShownWhileLoading(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{}, 1)
	calls := 0
	src := &stubSource{listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
		calls++
		if calls == 2 {
			entered <- struct{}{}
			<-block
			return envelope.Response[envelope.Page[item]]{}, statusErr(http.StatusBadGateway)
		}
		return page(item{ID: "1"}), nil
	}}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))

	done := make(chan error)
	go func() { done <- d.SetPage(context.Background(), 2) }()
	<-entered
	v := d.View()
	assert.Equal(t, StateOK, v.State)
	assert.True(t, v.Loading)
	close(block)
	require.NoError(t, <-done)

	v = d.View()
	assert.Equal(t, StateOK, v.State, "an error behind cached rows keeps the table")
	assert.Equal(t, "Bad Gateway", v.Message)
	assert.False(t, v.Loading)
}

func TestView_InitialStateIsLoading(t *testing.T) {
	d := newDriver(&stubSource{}, nil)
	assert.Equal(t, StateLoading, d.State())
}

func TestCreate_ValidationThenSuccess(t *testing.T) {
	ctx := context.Background()
	attempt := 0
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
			return page(item{ID: "1", Code: "HR"}), nil
		},
		createFn: func(_ context.Context, in itemInput) (envelope.Response[item], error) {
			attempt++
			if attempt == 1 {
				return envelope.Failure[item]("Validation error", envelope.ListDetails(
					envelope.ErrorItem{Field: "code", Message: "Code already exists"})), nil
			}
			return envelope.Success(item{ID: "2", Code: in.Code}, ""), nil
		},
	}
	notes := &recordingNotifier{}
	d := newDriver(src, notes)
	require.NoError(t, d.Mount(ctx, 2))
	require.NoError(t, d.OpenCreate())

	out, err := d.SubmitCreate(ctx, itemInput{Code: "HR", Name: "Human Resources"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, out)
	v := d.View()
	assert.True(t, v.Create.Open)
	assert.Equal(t, []string{"Code already exists"}, v.Create.Errors.Field("code"))
	assert.Empty(t, notes.all())

	out, err = d.SubmitCreate(ctx, itemInput{Code: "HR2", Name: "Human Resources"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out)
	v = d.View()
	assert.False(t, v.Create.Open)
	assert.Empty(t, v.Create.Errors)

	calls := src.listCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[1].Page, "reload stays on the current page")
	assert.Equal(t, []ports.Notification{{Level: ports.NotifySuccess, Message: "Department created"}}, notes.all())
}

func TestCreate_LocalValidationSkipsNetwork(t *testing.T) {
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) { return page(), nil },
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			t.Fatal("create must not be called")
			return envelope.Response[item]{}, nil
		},
	}
	notes := &recordingNotifier{}
	d := newDriver(src, notes)
	require.NoError(t, d.Mount(context.Background(), 1))
	require.NoError(t, d.OpenCreate())

	out, err := d.SubmitCreate(context.Background(), itemInput{Code: "WAY-TOO-LONG-CODE"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, out)
	assert.NotEmpty(t, d.View().Create.Errors.Field("code"))
	assert.NotEmpty(t, d.View().Create.Errors.Field("name"))
	assert.Empty(t, notes.all())
	assert.Zero(t, src.creates)
}

func TestCreate_422TransportError(t *testing.T) {
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) { return page(), nil },
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			return envelope.Response[item]{}, &apierror.HTTPError{
				Status: http.StatusUnprocessableEntity,
				Envelope: envelope.Failure[json.RawMessage]("Validation error", envelope.LegacyDetails(
					envelope.FieldMessages{Field: "name", Messages: []string{"Too long", "Invalid"}})),
			}
		},
	}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	require.NoError(t, d.OpenCreate())
	out, err := d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, out)
	assert.Equal(t, formerrors.Errors{{Field: "name", Messages: []string{"Too long", "Invalid"}}}, d.View().Create.Errors)
}

func TestCreate_ForbiddenClosesDialog(t *testing.T) {
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
			return page(item{ID: "1"}), nil
		},
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			return envelope.Response[item]{}, statusErr(http.StatusForbidden)
		},
	}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	require.NoError(t, d.OpenCreate())
	out, err := d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeForbidden, out)

	v := d.View()
	assert.Equal(t, StateForbidden, v.State)
	assert.False(t, v.Create.Open)
	assert.Empty(t, v.Rows)
}

func TestCreate_OtherFailureNotifiesAndKeepsDialog(t *testing.T) {
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) { return page(), nil },
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			return envelope.Response[item]{}, &apierror.TransportError{Err: context.DeadlineExceeded}
		},
	}
	notes := &recordingNotifier{}
	d := newDriver(src, notes)
	require.NoError(t, d.Mount(context.Background(), 1))
	require.NoError(t, d.OpenCreate())
	out, err := d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out)
	assert.True(t, d.View().Create.Open)
	assert.Equal(t, StateEmpty, d.State())
	assert.Equal(t, []ports.Notification{{Level: ports.NotifyError, Message: "Unable to reach the server"}}, notes.all())
}

func TestCreate_OneSubmissionAtATime(t *testing.T) {
	release := make(chan struct{})
	inFlight := make(chan struct{})
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) { return page(), nil },
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			close(inFlight)
			<-release
			return envelope.Success(item{ID: "9"}, ""), nil
		},
	}
	d := newDriver(src, nil)
	require.NoError(t, d.Mount(context.Background(), 1))
	require.NoError(t, d.OpenCreate())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		out, err := d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
		assert.NoError(t, err)
		assert.Equal(t, OutcomeSaved, out)
	}()
	<-inFlight
	assert.True(t, d.View().Create.Submitting)

	_, err := d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(release)
	wg.Wait()
	assert.Equal(t, 1, src.creates)

	_, err = d.SubmitCreate(context.Background(), itemInput{Code: "A", Name: "B"})
	assert.ErrorIs(t, err, domain.ErrDialogClosed)
}

func TestEdit_Flow(t *testing.T) {
	var gotKey string
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
			return page(item{ID: "1", Code: "HR"}, item{ID: "2", Code: "LOCK"}), nil
		},
		updateFn: func(_ context.Context, key string, in itemInput) (envelope.Response[item], error) {
			gotKey = key
			return envelope.Success(item{ID: key, Code: in.Code}, "Updated"), nil
		},
	}
	notes := &recordingNotifier{}
	var opened []string
	d := NewDriver[item, itemInput, itemInput](src, Config[item, itemInput, itemInput]{
		Name:           "departments",
		Label:          "Department",
		InitialEdit:    func(r item) itemInput { return itemInput{Code: r.Code, Name: "n"} },
		DisableEdit:    func(r item) bool { return r.Code == "LOCK" },
		BeforeOpenEdit: func(r item) { opened = append(opened, r.ID) },
		Notifier:       notes,
		Log:            zerolog.Nop(),
	})
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx, 1))

	assert.ErrorIs(t, d.OpenEdit("404"), ErrRowNotFound)
	assert.ErrorIs(t, d.OpenEdit("2"), ErrEditDisabled)
	assert.False(t, d.View().Rows[1].Editable)

	require.NoError(t, d.OpenEdit("1"))
	v := d.View()
	assert.True(t, v.Edit.Open)
	assert.Equal(t, "1", v.Edit.Key)
	assert.Equal(t, "HR", v.Edit.Values.Code)
	assert.Equal(t, []string{"1"}, opened)

	out, err := d.SubmitEdit(ctx, itemInput{Code: "HRX", Name: "n"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out)
	assert.Equal(t, "1", gotKey)
	assert.False(t, d.View().Edit.Open)
	assert.Equal(t, "Updated", notes.all()[0].Message)
}

type recordingScheduler struct {
	keys []string
	jobs []func(context.Context)
}

func (s *recordingScheduler) Schedule(key string, job func(context.Context)) {
	s.keys = append(s.keys, key)
	s.jobs = append(s.jobs, job)
}

func TestCreate_ScheduledReload(t *testing.T) {
	src := &stubSource{
		listFn: func(context.Context, ports.ListParams) (envelope.Response[envelope.Page[item]], error) {
			return page(item{ID: "1"}), nil
		},
		createFn: func(context.Context, itemInput) (envelope.Response[item], error) {
			return envelope.Success(item{ID: "2"}, ""), nil
		},
	}
	sched := &recordingScheduler{}
	d := NewDriver[item, itemInput, itemInput](src, Config[item, itemInput, itemInput]{
		Name:        "departments",
		Label:       "Department",
		Scheduler:   sched,
		ScheduleKey: "sid-1:departments",
		Log:         zerolog.Nop(),
	})
	ctx := context.Background()
	require.NoError(t, d.Mount(ctx, 1))
	require.NoError(t, d.OpenCreate())
	_, err := d.SubmitCreate(ctx, itemInput{Code: "A", Name: "B"})
	require.NoError(t, err)

	v := d.View()
	assert.Equal(t, StateOK, v.State)
	assert.True(t, v.Loading)
	require.Equal(t, []string{"sid-1:departments"}, sched.keys)

	ctx2, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sched.jobs[0](ctx2)
	assert.False(t, d.View().Loading)
	assert.Len(t, src.listCalls(), 2)
}
