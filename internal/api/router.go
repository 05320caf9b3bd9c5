package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ffi-hr/portal/internal/api/docs"
	"github.com/ffi-hr/portal/internal/api/handler"
	"github.com/ffi-hr/portal/internal/api/middleware"
	"github.com/ffi-hr/portal/internal/core/guard"
)

const metricsNamespace = "ffi_portal"

// RouterConfig holds what the portal routes need.
type RouterConfig struct {
	Portals   middleware.Portals
	Cookie    middleware.CookieConfig
	Validator *validator.Validate
	// Health lists the readiness checks by dependency name.
	Health map[string]handler.Pinger
	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)
	if cfg.Validator != nil {
		e.Validator = handler.NewValidator(cfg.Validator)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(cfg.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  metricsNamespace,
		Registerer: cfg.Registerer,
	}))

	// --- Operational routes (no portal session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Health)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: cfg.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(nil)
	dashboardHandler := handler.NewDashboardHandler(nil)
	adminHandler := handler.NewAdminHandler(nil, cfg.Log)
	employeeHandler := handler.NewEmployeeHandler(nil)
	referenceHandler := handler.NewReferenceHandler(nil)
	attendanceHandler := handler.NewAttendanceHandler(nil)
	leaveHandler := handler.NewLeaveHandler(nil)

	session := middleware.PortalSession(cfg.Portals, cfg.Cookie)
	identity := middleware.Auth()

	// --- Public portal routes ---
	e.GET(guard.LoginPath, authHandler.LoginPage, session)
	e.POST(guard.LoginPath, authHandler.Login, session)

	// --- Identity only ---
	e.POST("/logout", authHandler.Logout, session, identity)
	e.GET("/change-password", authHandler.ChangePasswordPage, session, identity)
	e.POST("/change-password", authHandler.ChangePassword, session, identity)
	e.GET(guard.UnauthorizedPath, authHandler.Unauthorized, session, identity)
	e.GET("/me", authHandler.Me, session, identity)

	// --- SystemAdmin ---
	admin := e.Group("/admin", session, identity, middleware.RBAC(guard.AdminOnly...))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.Users)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PATCH("/users/:id/status", adminHandler.SetUserStatus)
	admin.PUT("/users/:id/role", adminHandler.SetUserRole)
	admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
	admin.GET("/invites", adminHandler.Invites)
	admin.POST("/invites", adminHandler.CreateInvite)
	admin.POST("/invites/:id/resend", adminHandler.ResendInvite)
	admin.DELETE("/invites/:id", adminHandler.RevokeInvite)
	admin.GET("/audit-logs", adminHandler.AuditLogs)
	admin.GET("/audit-logs/export", adminHandler.ExportAuditLogs)
	admin.GET("/settings", adminHandler.Settings)
	admin.PUT("/settings", adminHandler.UpdateSettings)

	// --- HRManager or SystemAdmin ---
	hr := e.Group("/hr", session, identity, middleware.RBAC(guard.HRStaff...))
	hr.GET("/dashboard", dashboardHandler.HR)
	hr.GET("/employees", employeeHandler.List)
	hr.POST("/employees", employeeHandler.Create)
	hr.POST("/employees/filters", employeeHandler.Filters)
	hr.GET("/employees/:id", employeeHandler.Get)
	hr.PUT("/employees/:id", employeeHandler.Update)
	hr.GET("/attendance", attendanceHandler.List)
	hr.PATCH("/attendance/:id", attendanceHandler.Override)
	hr.GET("/leave-balances", leaveHandler.Employee)

	hr.GET("/:entity", referenceHandler.Mount)
	hr.GET("/:entity/state", referenceHandler.State)
	hr.POST("/:entity/page", referenceHandler.SetPage)
	hr.POST("/:entity/retry", referenceHandler.Retry)
	hr.POST("/:entity/create/open", referenceHandler.OpenCreate)
	hr.POST("/:entity/create/cancel", referenceHandler.CancelCreate)
	hr.POST("/:entity/create", referenceHandler.SubmitCreate)
	hr.POST("/:entity/:id/edit/open", referenceHandler.OpenEdit)
	hr.POST("/:entity/edit/cancel", referenceHandler.CancelEdit)
	hr.POST("/:entity/edit", referenceHandler.SubmitEdit)

	// --- Every portal role ---
	employee := e.Group("/employee", session, identity, middleware.RBAC(guard.AnyPortalRole...))
	employee.GET("/home", dashboardHandler.Home)
	employee.GET("/attendance", attendanceHandler.Today)
	employee.POST("/attendance/check-in", attendanceHandler.CheckIn)
	employee.POST("/attendance/check-out", attendanceHandler.CheckOut)
	employee.GET("/leaves", leaveHandler.Mine)
	employee.POST("/leaves", leaveHandler.Request)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "http").Logger()
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
