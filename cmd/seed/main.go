package main

import (
	"context"
	"log/slog"
	"os"

	"estatehub/internal/config"
	"estatehub/internal/database"
	"estatehub/internal/logger"
	"estatehub/internal/seed"
	"estatehub/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	log := logger.FromConfig(cfg.Log)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Error("DB connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	log.Info("running AutoMigrate")
	if err := server.Migrate(db); err != nil {
		log.Error("AutoMigrate failed", "error", err)
		os.Exit(1)
	}

	log.Info("seeding database")
	stats, err := seed.Run(context.Background(), db)
	if err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}

	log.Info("database seeded",
		"properties", stats.Properties,
		"favorites", stats.Favorites,
		"user_id", seed.DemoUserID,
	)
}
