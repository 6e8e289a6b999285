package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"estatehub/internal/cache"
	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/logger"
	"estatehub/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.FromConfig(cfg.Log)
	slog.SetDefault(log)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("closing database failed", "error", err)
		}
	}()

	if err := server.Migrate(db); err != nil {
		return err
	}
	log.Info("database schema is up to date")

	store, err := cache.New(cfg.Cache, log)
	if err != nil {
		return err
	}
	defer store.Close()

	router := server.NewRouter(server.Deps{
		DB:         db,
		Catalog:    cache.NewNamespace(store, "properties", cfg.Cache.TTL),
		Log:        log,
		CORSOrigin: cfg.CORSOrigin,
		Release:    cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting api", "env", cfg.AppEnv, "addr", cfg.Addr())
	return server.New(cfg.Addr(), router, log).Run(ctx)
}
