// Package portal composes one portal session per browser: session store,
// auth machine, backend client and page drivers, all bound to the session
// id carried by the portal cookie.
package portal

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/core/auth"
	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/core/service"
	"github.com/ffi-hr/portal/internal/infrastructure/backend"
)

const defaultHydrateWait = 100 * time.Millisecond

// SessionFactory returns the session store bound to sid.
type SessionFactory func(sid string) ports.SessionStore

// Deps are shared by every portal session.
type Deps struct {
	Sessions       SessionFactory
	FilterStates   ports.EmployeeListStateRepository
	BackendURL     string
	BackendTimeout time.Duration
	Transport      http.RoundTripper
	Validator      *validator.Validate
	// Scheduler runs reloads after mutations. Nil reloads inline.
	Scheduler   ports.Scheduler
	HydrateWait time.Duration

	Observe   backend.Observer
	OnExpired func()
	Hooks     crud.Hooks
	Log       zerolog.Logger
}

// Portal is the state of one browser session.
type Portal struct {
	ID      string
	Machine *auth.Machine
	Client  *backend.Client

	Auth       *service.AuthService
	Employees  *service.EmployeeService
	Attendance *service.AttendanceService
	Leaves     *service.LeaveService
	Admin      *service.AdminService

	references map[domain.ReferenceKind]service.ReferencePage
	notes      *Notifications
	lastSeen   atomic.Int64
}

// Reference returns the CRUD page of kind.
func (p *Portal) Reference(kind domain.ReferenceKind) (service.ReferencePage, bool) {
	page, ok := p.references[kind]
	return page, ok
}

// Notifications returns and clears the pending messages.
func (p *Portal) Notifications() []ports.Notification { return p.notes.Drain() }

// Notify queues a message for the next render.
func (p *Portal) Notify(level ports.NotificationLevel, message string) {
	p.notes.Notify(ports.Notification{Level: level, Message: message})
}

// TokenStored reports whether the session store holds a token.
func (p *Portal) TokenStored(ctx context.Context) bool {
	token, err := p.Machine.Store().Token(ctx)
	return err == nil && token != ""
}

// User is the session user, nil for anonymous and partial sessions.
func (p *Portal) User() *domain.SessionUser { return p.Machine.Snapshot().User }

// Registry creates portal sessions on first use and keeps them in memory.
type Registry struct {
	deps Deps
	now  func() time.Time

	mu      sync.Mutex
	portals map[string]*Portal
}

func NewRegistry(deps Deps) (*Registry, error) {
	if deps.Sessions == nil {
		return nil, fmt.Errorf("portal: a session factory is required")
	}
	if _, err := backend.New(backend.Options{BaseURL: deps.BackendURL}); err != nil {
		return nil, fmt.Errorf("portal: %w", err)
	}
	if deps.HydrateWait <= 0 {
		deps.HydrateWait = defaultHydrateWait
	}
	deps.Log = deps.Log.With().Str("component", "portal").Logger()
	return &Registry{deps: deps, now: time.Now, portals: make(map[string]*Portal)}, nil
}

// Get returns the portal of sid, creating it when needed. A new portal
// starts hydrating in the background and Get waits at most HydrateWait for
// it; a portal still hydrating after that reports the Unknown state.
func (r *Registry) Get(ctx context.Context, sid string) (*Portal, error) {
	r.mu.Lock()
	p, ok := r.portals[sid]
	if !ok {
		var err error
		p, err = r.build(sid)
		if err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.portals[sid] = p
		go r.hydrate(p)
	}
	p.lastSeen.Store(r.now().UnixNano())
	r.mu.Unlock()

	select {
	case <-p.Machine.Hydrated():
	case <-time.After(r.deps.HydrateWait):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p, nil
}

func (r *Registry) hydrate(p *Portal) {
	if err := p.Machine.Hydrate(context.Background()); err != nil {
		r.deps.Log.Error().Err(err).Str("session_id", p.ID).Msg("hydration failed, session closed")
	}
}

// Evict drops portals idle for longer than idle. Stored sessions survive in
// the session store and are hydrated again on the next request.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, p := range r.portals {
		if p.lastSeen.Load() < cutoff {
			delete(r.portals, sid)
			n++
		}
	}
	return n
}

// Len is the number of live portals.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.portals)
}

func (r *Registry) build(sid string) (*Portal, error) {
	log := r.deps.Log.With().Str("session_id", sid).Logger()
	machine := auth.NewMachine(r.deps.Sessions(sid), log)

	client, err := backend.New(backend.Options{
		BaseURL:   r.deps.BackendURL,
		Timeout:   r.deps.BackendTimeout,
		Tokens:    machine.Store(),
		Expirer:   machine,
		Navigator: contextNavigator{},
		Expired:   r.deps.OnExpired,
		Observe:   r.deps.Observe,
		Transport: r.deps.Transport,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	notes := &Notifications{}
	p := &Portal{
		ID:         sid,
		Machine:    machine,
		Client:     client,
		Auth:       service.NewAuthService(client.Auth(), machine, r.deps.Validator, log),
		Employees:  service.NewEmployeeService(client.Employees(), r.deps.FilterStates, r.deps.Validator, log),
		Attendance: service.NewAttendanceService(client.Attendance(), r.deps.Validator),
		Leaves:     service.NewLeaveService(client.Leaves(), r.deps.Validator),
		Admin:      service.NewAdminService(client.Admin(), r.deps.Validator, log),
		references: make(map[domain.ReferenceKind]service.ReferencePage, len(domain.ReferenceKinds)),
		notes:      notes,
	}
	for _, kind := range domain.ReferenceKinds {
		p.references[kind] = service.NewReferencePage(client.Reference(), kind, service.ReferenceOptions{
			Validator:   r.deps.Validator,
			Notifier:    notes,
			Scheduler:   r.deps.Scheduler,
			ScheduleKey: sid,
			Hooks:       r.deps.Hooks,
			Log:         log,
		})
	}
	return p, nil
}
