// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/job-board/internal/config"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines by rune so padding and cut agree
		if runes := []rune(line); len(runes) > boxWidth-4 {
			line = string(runes[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintConfig outputs the effective configuration with credentials redacted.
func (p *Printer) PrintConfig(cfg *config.AppConfig) {
	if cfg == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Port:       %d\n", cfg.Server.Port))
	sb.WriteString(fmt.Sprintf("Timeouts:   read %s, write %s, idle %s\n",
		cfg.Server.ReadTimeout(), cfg.Server.WriteTimeout(), cfg.Server.IdleTimeout()))
	sb.WriteString(fmt.Sprintf("Database:   %s\n", RedactURL(cfg.Database.URL)))
	sb.WriteString("\n")

	if cfg.Redis.URL == "" {
		sb.WriteString("Events:     log only\n")
	} else {
		sb.WriteString(fmt.Sprintf("Events:     %s\n", RedactURL(cfg.Redis.URL)))
		sb.WriteString(fmt.Sprintf("Channel:    %s\n", cfg.Redis.Channel))
	}

	sb.WriteString(fmt.Sprintf("Paging:     %d per page, max %d\n", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize))

	if !cfg.Scheduler.Enabled {
		sb.WriteString("Scheduler:  disabled")
	} else {
		sb.WriteString(fmt.Sprintf("Scheduler:  ratings %s\n", cfg.Scheduler.RatingsSpec))
		if cfg.Scheduler.PostingTTLDays > 0 {
			sb.WriteString(fmt.Sprintf("            expire %s after %d days", cfg.Scheduler.ExpireSpec, cfg.Scheduler.PostingTTLDays))
		} else {
			sb.WriteString("            posting expiry disabled")
		}
	}

	p.printBox("JOB BOARD CONFIGURATION", sb.String())
}

// MaintenanceReport summarizes one maintenance run. A negative count means
// the job did not run.
type MaintenanceReport struct {
	ClosedPostings   int64
	CorrectedRatings int64
	Duration         time.Duration
}

// PrintMaintenance outputs the result of a maintenance run.
func (p *Printer) PrintMaintenance(report MaintenanceReport) {
	var sb strings.Builder

	writeCount := func(label string, n int64) {
		if n < 0 {
			sb.WriteString(fmt.Sprintf("%-20s skipped\n", label))
			return
		}
		sb.WriteString(fmt.Sprintf("%-20s %d\n", label, n))
	}
	writeCount("Postings closed:", report.ClosedPostings)
	writeCount("Ratings corrected:", report.CorrectedRatings)
	sb.WriteString(fmt.Sprintf("%-20s %s", "Duration:", report.Duration.Round(time.Millisecond)))

	p.printBox("MAINTENANCE", sb.String())
}

// RedactURL hides the password in a connection URL. Unparseable input is
// replaced entirely.
func RedactURL(raw string) string {
	if raw == "" {
		return "(not set)"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "(redacted)"
	}
	return u.Redacted()
}
