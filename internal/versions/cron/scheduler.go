package cronjob

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	"github.com/playpulse/playpulse-backend/internal/logging"
	"github.com/playpulse/playpulse-backend/internal/versions/domain"
)

// Backfiller is the slug backfill as the scheduler drives it.
type Backfiller interface {
	Owners(ctx context.Context) ([]string, error)
	RunForOwner(ctx context.Context, ownerUserID string) ([]domain.BackfillResult, error)
}

// Scheduler runs the slug backfill periodically for every owner that still has versions
// without slugs. Owners are processed one after another, paced by a rate limiter.
type Scheduler struct {
	spec     string
	backfill Backfiller
	limiter  *rate.Limiter
	timeout  time.Duration

	cron    *cron.Cron
	running sync.Mutex
}

func NewScheduler(spec string, backfill Backfiller, ownersPerSecond int) *Scheduler {
	if ownersPerSecond <= 0 {
		ownersPerSecond = 1
	}
	return &Scheduler{
		spec:     spec,
		backfill: backfill,
		limiter:  rate.NewLimiter(rate.Limit(ownersPerSecond), 1),
		timeout:  10 * time.Minute,
	}
}

// Start registers the job and starts the cron loop. An empty spec disables the job.
func (s *Scheduler) Start() error {
	log := logging.NewLogger(context.Background())
	if s.spec == "" {
		log.LogInfo("backfill_scheduler", "scheduled slug backfill disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			logging.NewLogger(ctx).LogError("backfill_scheduler", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid backfill schedule %q: %w", s.spec, err)
	}

	s.cron = c
	c.Start()
	log.LogInfof("backfill_scheduler", "cron scheduler started (%s)", s.spec)
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce backfills every owner once and returns how many slugs were assigned. Overlapping runs
// are skipped. A failing owner is logged and does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	if !s.running.TryLock() {
		logging.NewLogger(ctx).LogInfo("backfill_scheduler", "previous run still in progress, skipping")
		return 0, nil
	}
	defer s.running.Unlock()

	log := logging.NewLogger(ctx)
	owners, err := s.backfill.Owners(ctx)
	if err != nil {
		return 0, fmt.Errorf("list owners: %w", err)
	}

	total := 0
	for _, owner := range owners {
		if err := s.limiter.Wait(ctx); err != nil {
			return total, err
		}
		results, err := s.backfill.RunForOwner(ctx, owner)
		total += len(results)
		if err != nil {
			log.LogErrorf("backfill_scheduler", "owner=%s: %v", owner, err)
			continue
		}
	}

	if total > 0 {
		log.LogInfof("backfill_scheduler", "assigned %d slugs across %d owners", total, len(owners))
	}
	return total, nil
}
