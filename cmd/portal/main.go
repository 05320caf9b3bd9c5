// Command portal serves the FFI HR admin portal.
//
//	@title			FFI HR Portal
//	@version		1.0
//	@description	Session-holding portal in front of the FFI HR backend. Screens render as JSON views.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/api"
	"github.com/ffi-hr/portal/internal/api/handler"
	"github.com/ffi-hr/portal/internal/api/metrics"
	"github.com/ffi-hr/portal/internal/api/middleware"
	"github.com/ffi-hr/portal/internal/core/ports"
	"github.com/ffi-hr/portal/internal/infrastructure/backend"
	"github.com/ffi-hr/portal/internal/infrastructure/db/mongo"
	"github.com/ffi-hr/portal/internal/infrastructure/db/redis"
	"github.com/ffi-hr/portal/internal/infrastructure/memstore"
	"github.com/ffi-hr/portal/internal/infrastructure/queue"
	"github.com/ffi-hr/portal/internal/infrastructure/tracing"
	"github.com/ffi-hr/portal/internal/pkg/config"
	"github.com/ffi-hr/portal/internal/pkg/validate"
	"github.com/ffi-hr/portal/internal/portal"
	"github.com/ffi-hr/portal/pkg/logger"
)

const evictEvery = time.Minute

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction(), Service: "ffi-hr-portal"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.Tracing.Endpoint,
		Service:     cfg.Tracing.Service,
		Environment: cfg.Env,
	}, logger.Component("tracing"))
	if err != nil {
		log.Fatal().Err(err).Msg("tracing init failed")
	}

	health := map[string]handler.Pinger{}

	// --- Session store ---
	var sessions portal.SessionFactory
	switch cfg.Session.Backend {
	case "redis":
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connect failed")
		}
		defer rdb.Close()
		rs := redis.NewSessions(rdb, cfg.Session.TTL)
		sessions = func(sid string) ports.SessionStore { return rs.ForSession(sid) }
		health["redis"] = rs.Ping
	default:
		ms := memstore.NewSessions()
		sessions = func(sid string) ports.SessionStore { return ms.ForSession(sid) }
		log.Warn().Msg("sessions kept in memory, they will not survive a restart")
	}

	// --- Filter state ---
	var filterStates ports.EmployeeListStateRepository
	switch cfg.FilterState.Backend {
	case "mongo":
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connect failed")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		repo := mongo.NewFilterStateRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("mongo indexes failed")
		}
		filterStates = repo
		health["mongo"] = mongo.Pinger(client)
	default:
		filterStates = memstore.NewEmployeeListStateRepository()
	}

	// --- Reload scheduler ---
	var scheduler ports.Scheduler
	var dispatcher *queue.Dispatcher
	if cfg.Portal.AsyncReload {
		dispatcher = queue.NewDispatcher(cfg.Portal.Workers, metrics.ObserveQueueDepth, logger.Component("dispatcher"))
		dispatcher.Start(ctx)
		scheduler = dispatcher
	}

	validator := validate.New()
	registry, err := portal.NewRegistry(portal.Deps{
		Sessions:       sessions,
		FilterStates:   filterStates,
		BackendURL:     cfg.Backend.BaseURL,
		BackendTimeout: cfg.Backend.Timeout,
		Validator:      validator,
		Scheduler:      scheduler,
		HydrateWait:    cfg.Portal.HydrateWait,
		Observe:        metrics.ObserveUpstream,
		OnExpired:      metrics.SessionExpired,
		Hooks:          metrics.CrudHooks(),
		Log:            log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("portal registry init failed")
	}

	probe, err := backend.New(backend.Options{BaseURL: cfg.Backend.BaseURL, Timeout: 3 * time.Second, Log: log})
	if err != nil {
		log.Fatal().Err(err).Msg("backend probe init failed")
	}
	health["backend"] = probe.Ping

	e := api.NewRouter(api.RouterConfig{
		Portals: registry,
		Cookie: middleware.CookieConfig{
			Name:   cfg.Session.Cookie,
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.TTL,
		},
		Validator: validator,
		Health:    health,
		Log:       log,
	})

	go evictIdle(ctx, registry, cfg.Session.TTL, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.BaseURL).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if dispatcher != nil {
		dispatcher.Wait()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown failed")
	}
}

// evictIdle drops in-memory portals that have been idle for a session TTL.
func evictIdle(ctx context.Context, registry *portal.Registry, idle time.Duration, log zerolog.Logger) {
	t := time.NewTicker(evictEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := registry.Evict(idle); n > 0 {
				log.Debug().Int("evicted", n).Int("live", registry.Len()).Msg("idle portals evicted")
			}
		}
	}
}
