package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	var cfg Config
	if err := Process(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{})); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.Cookie != "ffi_portal_sid" || cfg.Session.TTL != 12*time.Hour {
		t.Fatalf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Portal.HydrateWait != 100*time.Millisecond || cfg.Portal.Workers != 4 || cfg.Portal.AsyncReload {
		t.Fatalf("unexpected portal defaults: %+v", cfg.Portal)
	}
	if cfg.Mongo.Database != "ffi_hr_portal" {
		t.Fatalf("unexpected mongo db: %s", cfg.Mongo.Database)
	}
}

func TestProcess_Overrides(t *testing.T) {
	var cfg Config
	err := Process(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{
		"SESSION_BACKEND":      "memory",
		"FILTER_STATE_BACKEND": "memory",
		"PORTAL_ASYNC_RELOAD":  "true",
		"BACKEND_TIMEOUT":      "3s",
		"ENV":                  "production",
	}))
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if cfg.Session.Backend != "memory" || !cfg.Portal.AsyncReload || cfg.Backend.Timeout != 3*time.Second || !cfg.IsProduction() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestProcess_RejectsUnknownBackend(t *testing.T) {
	var cfg Config
	err := Process(context.Background(), &cfg, envconfig.MapLookuper(map[string]string{"SESSION_BACKEND": "etcd"}))
	if err == nil {
		t.Fatalf("expected an error for an unknown session backend")
	}
}
