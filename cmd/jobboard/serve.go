package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/job-board/internal/events"
	"github.com/jonathan/job-board/internal/observability"
	"github.com/jonathan/job-board/internal/scheduler"
	"github.com/jonathan/job-board/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveVerbose bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the job board REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print the effective configuration before starting")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if serveVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintConfig(cfg)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	var publisher events.Publisher = events.LogPublisher{}
	if cfg.Redis.URL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		publisher = events.NewRedisPublisher(rdb, cfg.Redis.Channel)
		log.Printf("[events] Publishing to redis channel %q", cfg.Redis.Channel)
	}

	if cfg.Scheduler.Enabled {
		sched := scheduler.New(database, schedulerConfig(cfg))
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
	}

	srv, err := server.New(server.Config{
		App:       cfg,
		Store:     database,
		Publisher: publisher,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
