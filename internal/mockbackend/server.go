// Package mockbackend is an in-memory stand-in for the HR backend. It speaks
// the same envelope and error shapes, so the portal and the CLI can run
// locally and in integration tests without the real service.
package mockbackend

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ffi-hr/portal/internal/core/domain"
)

// DemoPassword is the password of the seeded accounts.
const DemoPassword = "password123"

type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost. Tests lower it.
	BcryptCost int
}

// Server holds the backend state. All handlers share one mutex.
type Server struct {
	cfg Config
	log zerolog.Logger
	now func() time.Time

	mu         sync.Mutex
	nextID     int
	accounts   map[string]*account
	revoked    map[string]struct{}
	references map[domain.ReferenceKind][]domain.ReferenceEntity
	employees  []domain.Employee
	attendance map[domain.ID]*domain.AttendanceRecord
	settings   domain.Settings
}

func New(cfg Config, log zerolog.Logger) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 8 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	s := &Server{
		cfg:        cfg,
		log:        log.With().Str("component", "mockbackend").Logger(),
		now:        time.Now,
		accounts:   make(map[string]*account),
		revoked:    make(map[string]struct{}),
		references: make(map[domain.ReferenceKind][]domain.ReferenceEntity),
		attendance: make(map[domain.ID]*domain.AttendanceRecord),
	}
	s.seed()
	return s
}

// Handler builds the echo instance serving the backend routes.
func (s *Server) Handler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Use(echomw.Recover())

	e.GET("/health", s.health)
	e.POST("/auth/login", s.login)

	authed := e.Group("", s.bearer)
	authed.POST("/auth/logout", s.logout)
	authed.POST("/auth/change-password", s.changePassword)
	authed.GET("/api/attendance/me/", s.myAttendance)
	authed.POST("/api/attendance/me/check-in/", s.checkIn)
	authed.POST("/api/attendance/me/check-out/", s.checkOut)
	authed.GET("/api/leaves/employee/leave-balance/", s.leaveBalance)

	hr := authed.Group("", requireRole(domain.RoleSystemAdmin, domain.RoleHRManager))
	hr.GET("/api/hr/:kind/", s.listReferences)
	hr.POST("/api/hr/:kind/", s.createReference)
	hr.PATCH("/api/hr/:kind/:id/", s.updateReference)
	hr.GET("/employees", s.listEmployees)
	hr.POST("/employees", s.createEmployee)
	hr.GET("/employees/:id", s.getEmployee)
	hr.PUT("/employees/:id", s.updateEmployee)
	hr.GET("/hr/summary", s.hrSummary)

	admin := authed.Group("", requireRole(domain.RoleSystemAdmin))
	admin.GET("/admin/summary", s.adminSummary)
	admin.GET("/users", s.listUsers)
	admin.GET("/settings", s.getSettings)
	admin.PUT("/settings", s.putSettings)

	return e
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ok": true, "service": "mock-backend"})
}

func (s *Server) id() domain.ID {
	s.nextID++
	return domain.ID(strconv.Itoa(s.nextID))
}

func (s *Server) seed() {
	for _, a := range []struct {
		email, name string
		role        domain.Role
	}{
		{"admin@ffi.test", "Aisha Admin", domain.RoleSystemAdmin},
		{"hr@ffi.test", "Hamad HR", domain.RoleHRManager},
		{"employee@ffi.test", "Elena Employee", domain.RoleEmployee},
	} {
		if _, err := s.register(a.email, a.name, DemoPassword, a.role); err != nil {
			s.log.Fatal().Err(err).Msg("seeding accounts failed")
		}
	}

	s.references[domain.KindDepartment] = []domain.ReferenceEntity{
		{ID: s.id(), Code: "FIN", Name: "Finance"},
		{ID: s.id(), Code: "OPS", Name: "Operations"},
	}
	s.references[domain.KindPosition] = []domain.ReferenceEntity{
		{ID: s.id(), Code: "ACC", Name: "Accountant"},
	}
	s.references[domain.KindTaskGroup] = nil
	s.references[domain.KindSponsor] = []domain.ReferenceEntity{
		{ID: s.id(), Code: "SP1"},
	}

	s.employees = []domain.Employee{
		{ID: s.id(), EmployeeID: "E-001", FullName: "Alice Mansour", Email: "alice@ffi.test", Department: "Finance", EmploymentStatus: domain.EmploymentActive},
		{ID: s.id(), EmployeeID: "E-002", FullName: "Omar Saleh", Email: "omar@ffi.test", Department: "Operations", EmploymentStatus: domain.EmploymentActive},
		{ID: s.id(), EmployeeID: "E-003", FullName: "Mira Haddad", Email: "mira@ffi.test", Department: "Operations", EmploymentStatus: domain.EmploymentSuspended},
	}

	s.settings.PasswordPolicy.MinLength = 8
	s.settings.Session.TimeoutMinutes = 60
	s.settings.Invites.DefaultExpiryHours = 72
	s.settings.Security.MaxLoginAttempts = 5
}
