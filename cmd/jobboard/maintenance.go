package main

import (
	"fmt"
	"time"

	"github.com/jonathan/job-board/internal/observability"
	"github.com/jonathan/job-board/internal/scheduler"
	"github.com/spf13/cobra"
)

var maintenanceJob string

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run the maintenance jobs once and exit",
	Long: `Run the scheduled maintenance jobs once: closing postings older than the
configured TTL and recomputing drifted company ratings. Expiry is skipped
when posting_ttl_days is 0.`,
	RunE: runMaintenance,
}

func init() {
	maintenanceCmd.Flags().StringVar(&maintenanceJob, "job", "all", "Job to run: all, expire or ratings")
	rootCmd.AddCommand(maintenanceCmd)
}

func runMaintenance(cmd *cobra.Command, _ []string) error {
	switch maintenanceJob {
	case "all", "expire", "ratings":
	default:
		return fmt.Errorf("unknown job %q (want all, expire or ratings)", maintenanceJob)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	database, err := connect(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	sched := scheduler.New(database, schedulerConfig(cfg))
	report := observability.MaintenanceReport{ClosedPostings: -1, CorrectedRatings: -1}
	start := time.Now()

	if maintenanceJob != "ratings" && cfg.Scheduler.PostingTTLDays > 0 {
		report.ClosedPostings = sched.ExpirePostings(cmd.Context())
	}
	if maintenanceJob != "expire" {
		report.CorrectedRatings = sched.RefreshRatings(cmd.Context())
	}
	report.Duration = time.Since(start)

	observability.NewPrinter(cmd.OutOrStdout()).PrintMaintenance(report)
	return nil
}
