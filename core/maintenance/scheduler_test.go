package maintenance

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ajali/config"
	"ajali/core/store"
	"ajali/core/utils"
)

func newTestScheduler(t *testing.T) (*Scheduler, store.TokenStore) {
	t.Helper()
	cfg := &config.AppConfig{
		DBDriver: "sqlite",
		DBURL:    filepath.Join(t.TempDir(), "maint_test.db"),
		Scheduler: config.SchedulerConfig{
			Enabled:   true,
			PurgeSpec: "0 3 * * *",
			StatsSpec: "0 6 * * *",
		},
	}
	logger := utils.NewLogger()
	db, err := store.NewDB(cfg, logger)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.ApplyMigrations(context.Background(), db, cfg.DBDriver, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	tokens := store.NewTokensStore(db)
	return NewScheduler(cfg, tokens, store.NewReportsStore(db), logger), tokens
}

func TestPurgeOnce(t *testing.T) {
	s, tokens := newTestScheduler(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := tokens.Revoke(ctx, "jti-expired", now.Add(-time.Minute)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := tokens.Revoke(ctx, "jti-live", now.Add(time.Hour)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := s.purgeOnce(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}
	revoked, err := tokens.IsRevoked(ctx, "jti-expired")
	if err != nil || revoked {
		t.Fatalf("expired revocation not purged: %v, %v", revoked, err)
	}
	revoked, err = tokens.IsRevoked(ctx, "jti-live")
	if err != nil || !revoked {
		t.Fatalf("live revocation lost: %v, %v", revoked, err)
	}
}

func TestSnapshotOnce(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.snapshotOnce(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(t)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}

func TestStartDisabled(t *testing.T) {
	s, _ := newTestScheduler(t)
	s.cfg.Scheduler.Enabled = false
	if err := s.Start(); err != nil {
		t.Fatalf("start disabled: %v", err)
	}
	s.Stop()
}
