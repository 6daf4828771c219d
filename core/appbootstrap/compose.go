package appbootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ajali/api"
	"ajali/config"
	"ajali/core/auth"
	"ajali/core/maintenance"
	"ajali/core/rbac"
	"ajali/core/reports"
	"ajali/core/store"
	"ajali/core/utils"
)

// BackgroundWorker is anything main starts before serving and stops on
// shutdown.
type BackgroundWorker interface {
	Start() error
	Stop()
}

type Runtime struct {
	Server  *api.Server
	Workers []BackgroundWorker

	users store.UsersStore
	cfg   *config.AppConfig
}

func Compose(cfg *config.AppConfig, db *sql.DB, logger *utils.Logger) (*Runtime, error) {
	policy, err := rbac.NewPolicy()
	if err != nil {
		return nil, err
	}
	users := store.NewUsersStore(db)
	tokens := store.NewTokensStore(db)
	audits := store.NewAuditStore(db)
	reportsStore := store.NewReportsStore(db)
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.EffectiveTokenTTL())
	reportsSvc := reports.NewService(cfg, reportsStore, audits, policy, logger)
	scheduler := maintenance.NewScheduler(cfg, tokens, reportsStore, logger)

	server := api.NewServer(api.ServerDeps{
		Cfg:          cfg,
		Logger:       logger,
		Users:        users,
		Tokens:       tokens,
		Audits:       audits,
		Policy:       policy,
		TokenManager: tokenManager,
		ReportsSvc:   reportsSvc,
	})
	return &Runtime{
		Server:  server,
		Workers: []BackgroundWorker{scheduler},
		users:   users,
		cfg:     cfg,
	}, nil
}

// EnsureAdmin provisions the configured admin account on first start. An
// existing account with that email is left untouched.
func (rt *Runtime) EnsureAdmin(ctx context.Context) error {
	email := strings.ToLower(strings.TrimSpace(rt.cfg.AdminEmail))
	if email == "" || rt.cfg.AdminPassword == "" {
		return nil
	}
	existing, err := rt.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(rt.cfg.AdminPassword, rt.cfg.Pepper)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return rt.users.Create(ctx, &store.User{
		Email:        email,
		FullName:     "Administrator",
		PasswordHash: hash,
		Role:         rbac.RoleAdmin,
	})
}
