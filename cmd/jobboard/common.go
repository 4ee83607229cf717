package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-board/internal/config"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/scheduler"
)

// loadConfig loads the app config and requires a database URL
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or 'database.url' is required")
	}
	return cfg, nil
}

// connect opens the database and applies pending migrations
func connect(ctx context.Context, cfg *config.AppConfig) (*db.DB, error) {
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return database, nil
}

func schedulerConfig(cfg *config.AppConfig) scheduler.Config {
	return scheduler.Config{
		PostingTTL:  cfg.Scheduler.PostingTTL(),
		ExpireSpec:  cfg.Scheduler.ExpireSpec,
		RatingsSpec: cfg.Scheduler.RatingsSpec,
	}
}
