package config

import (
	"testing"
	"time"
)

func TestEffectiveTokenTTL(t *testing.T) {
	cfg := &AppConfig{}
	if got := cfg.EffectiveTokenTTL(); got != time.Hour {
		t.Fatalf("default ttl = %s", got)
	}
	cfg.TokenTTL = 30 * time.Minute
	if got := cfg.EffectiveTokenTTL(); got != 30*time.Minute {
		t.Fatalf("configured ttl = %s", got)
	}
	cfg.TokenTTL = 48 * time.Hour
	if got := cfg.EffectiveTokenTTL(); got != maxTokenTTL {
		t.Fatalf("ttl not capped: %s", got)
	}
}

func TestEffectivePageSize(t *testing.T) {
	cfg := &AppConfig{}
	if got := cfg.EffectivePageSize(); got != 20 {
		t.Fatalf("default page size = %d", got)
	}
	cfg.PageSize = 50
	if got := cfg.EffectivePageSize(); got != 50 {
		t.Fatalf("configured page size = %d", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("AJALI_LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("AJALI_JWT_SECRET", "env-secret")
	cfg, err := Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != "127.0.0.1:9090" || cfg.JWTSecret != "env-secret" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.DBDriver != "sqlite" || cfg.Scheduler.PurgeSpec == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}
