// Command mockbackend serves the in-memory HR backend for local development.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ffi-hr/portal/internal/mockbackend"
	"github.com/ffi-hr/portal/internal/pkg/config"
	"github.com/ffi-hr/portal/pkg/logger"
)

func main() {
	cfg := config.LoadMock()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "mock-backend"})

	e := mockbackend.New(mockbackend.Config{JWTSecret: cfg.JWTSecret, TokenTTL: cfg.TokenTTL}, log).Handler()

	go func() {
		log.Info().Str("port", cfg.Port).Msg("mock backend listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
