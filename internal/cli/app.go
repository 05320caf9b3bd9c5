// Package cli implements hrctl, a terminal client of the HR backend. It runs
// the same services as the portal over a session kept in two files.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/service"
	"github.com/ffi-hr/portal/internal/infrastructure/backend"
	"github.com/ffi-hr/portal/internal/infrastructure/filestore"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
	"github.com/ffi-hr/portal/internal/pkg/validate"
)

// errReported is returned once the failure was already printed. It only
// sets the exit code.
var errReported = errors.New("reported")

// Options are the process-level inputs of the CLI.
type Options struct {
	// Dir holds config.yaml and the session files. Defaults to ~/.ffi-hr.
	Dir       string
	Out       io.Writer
	Err       io.Writer
	Transport http.RoundTripper
	Log       zerolog.Logger
}

// App is the state shared by the commands of one invocation.
type App struct {
	opts    Options
	baseURL string

	cfg        Config
	store      *filestore.SessionStore
	machine    *auth.Machine
	client     *backend.Client
	validate   *validator.Validate
	auth       *service.AuthService
	employees  *service.EmployeeService
	attendance *service.AttendanceService

	expiredOnce sync.Once
	expired     bool
}

func newApp(opts Options) *App {
	return &App{opts: opts}
}

// init loads config and session and builds the backend client. It runs
// before every command.
func (a *App) init(ctx context.Context) error {
	dir := a.opts.Dir
	if dir == "" {
		d, err := filestore.DefaultDir()
		if err != nil {
			return err
		}
		dir = d
	}

	cfg, err := LoadConfig(filepath.Join(dir, configFile))
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	a.cfg = cfg

	a.store = filestore.New(dir)
	a.machine = auth.NewMachine(a.store, a.opts.Log)
	if err := a.machine.Hydrate(ctx); err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	a.client, err = backend.New(backend.Options{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Tokens:    a.store,
		Expirer:   a.machine,
		Expired:   a.sessionExpired,
		Transport: a.opts.Transport,
		Log:       a.opts.Log,
	})
	if err != nil {
		return err
	}

	a.validate = validate.New()
	a.auth = service.NewAuthService(a.client.Auth(), a.machine, a.validate, a.opts.Log)
	a.employees = service.NewEmployeeService(a.client.Employees(), memstore.NewEmployeeListStateRepository(), a.validate, a.opts.Log)
	a.attendance = service.NewAttendanceService(a.client.Attendance(), a.validate)
	return nil
}

// sessionExpired prints the notice the first time a 401 ends the session.
func (a *App) sessionExpired() {
	a.expiredOnce.Do(func() {
		a.expired = true
		fmt.Fprintln(a.opts.Err, styles.Error.Render("Session expired. Run `hrctl login` to sign in again."))
	})
}

// user returns the signed-in user or a printed error.
func (a *App) user() (*domain.SessionUser, error) {
	st := a.machine.Snapshot()
	if !st.IsAuthenticated() {
		fmt.Fprintln(a.opts.Err, "Not logged in. Run `hrctl login` first.")
		return nil, errReported
	}
	return st.User, nil
}

// fail turns a transport or backend error into the command's exit error.
// An expired session was already announced.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	if apierror.Classify(err) == apierror.KindUnauthorized {
		if !a.expired {
			a.sessionExpired()
		}
		return errReported
	}
	return err
}
