package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ajali/config"
	"ajali/core/appbootstrap"
	"ajali/core/store"
	"ajali/core/utils"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	logger := utils.NewLogger()
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("CONFIG %v", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logger.Errorf("CONFIG jwt_secret is required")
		os.Exit(1)
	}

	db, err := store.NewDB(cfg, logger)
	if err != nil {
		logger.Errorf("DB %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.ApplyMigrations(ctx, db, cfg.DBDriver, logger); err != nil {
		logger.Errorf("MIGRATE %v", err)
		os.Exit(1)
	}

	rt, err := appbootstrap.Compose(cfg, db, logger)
	if err != nil {
		logger.Errorf("BOOTSTRAP %v", err)
		os.Exit(1)
	}
	if err := rt.EnsureAdmin(ctx); err != nil {
		logger.Errorf("BOOTSTRAP admin: %v", err)
		os.Exit(1)
	}
	for _, worker := range rt.Workers {
		if err := worker.Start(); err != nil {
			logger.Errorf("WORKER %v", err)
			os.Exit(1)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- rt.Server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-stop:
		logger.Printf("SHUTDOWN signal %s", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := rt.Server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("SHUTDOWN %v", err)
	}
	for _, worker := range rt.Workers {
		worker.Stop()
	}
	logger.Printf("SHUTDOWN complete")
}
