// Package scheduler runs the periodic maintenance jobs: closing postings that
// outlived their TTL and reconciling cached company ratings.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default cron specs
const (
	DefaultExpireSpec  = "@every 1h"
	DefaultRatingsSpec = "@every 6h"
)

// Store is the maintenance surface of the database
type Store interface {
	CloseStaleJobPostings(ctx context.Context, cutoff time.Time) (int64, error)
	RefreshCompanyRatings(ctx context.Context) (int64, error)
}

// Config controls the jobs
type Config struct {
	PostingTTL  time.Duration
	ExpireSpec  string
	RatingsSpec string
}

// Scheduler wraps robfig/cron and owns the maintenance jobs
type Scheduler struct {
	cron    *cron.Cron
	store   Store
	cfg     Config
	now     func() time.Time
	initial sync.WaitGroup
}

// New creates a Scheduler. Empty specs fall back to the defaults; a zero
// PostingTTL disables posting expiry.
func New(store Store, cfg Config) *Scheduler {
	if cfg.ExpireSpec == "" {
		cfg.ExpireSpec = DefaultExpireSpec
	}
	if cfg.RatingsSpec == "" {
		cfg.RatingsSpec = DefaultRatingsSpec
	}
	return &Scheduler{
		cron:  cron.New(cron.WithLogger(cron.DefaultLogger)),
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Start registers the jobs and starts the scheduler. Both jobs also run once
// immediately so a restart does not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.PostingTTL > 0 {
		if _, err := s.cron.AddFunc(s.cfg.ExpireSpec, func() { s.ExpirePostings(ctx) }); err != nil {
			return fmt.Errorf("cron.AddFunc(%s): %w", s.cfg.ExpireSpec, err)
		}
	}
	if _, err := s.cron.AddFunc(s.cfg.RatingsSpec, func() { s.RefreshRatings(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc(%s): %w", s.cfg.RatingsSpec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started (expire: %s, ratings: %s)", s.cfg.ExpireSpec, s.cfg.RatingsSpec)

	s.initial.Add(1)
	go func() {
		defer s.initial.Done()
		s.RunOnce(ctx)
	}()
	return nil
}

// Stop shuts down the scheduler and waits for running jobs, including the
// startup run, to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.initial.Wait()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce runs every job once, in order
func (s *Scheduler) RunOnce(ctx context.Context) {
	if s.cfg.PostingTTL > 0 {
		s.ExpirePostings(ctx)
	}
	s.RefreshRatings(ctx)
}

// ExpirePostings closes active postings posted before now minus the TTL.
// Returns the number of postings closed.
func (s *Scheduler) ExpirePostings(ctx context.Context) int64 {
	cutoff := s.now().Add(-s.cfg.PostingTTL)
	n, err := s.store.CloseStaleJobPostings(ctx, cutoff)
	if err != nil {
		log.Printf("[scheduler] Failed to close stale postings: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[scheduler] Closed %d posting(s) posted before %s", n, cutoff.Format(time.RFC3339))
	}
	return n
}

// RefreshRatings recomputes drifted company ratings. Returns the number of
// companies corrected.
func (s *Scheduler) RefreshRatings(ctx context.Context) int64 {
	n, err := s.store.RefreshCompanyRatings(ctx)
	if err != nil {
		log.Printf("[scheduler] Failed to refresh company ratings: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[scheduler] Corrected %d company rating(s)", n)
	}
	return n
}
