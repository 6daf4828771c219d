package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"ajali/config"
	"ajali/core/store"
	"ajali/core/utils"
)

const jobTimeout = 30 * time.Second

// Scheduler runs the background housekeeping jobs: purging expired token
// revocations and logging a daily report snapshot.
type Scheduler struct {
	cfg     *config.AppConfig
	tokens  store.TokenStore
	reports store.ReportsStore
	logger  *utils.Logger
	cron    *cron.Cron
}

func NewScheduler(cfg *config.AppConfig, tokens store.TokenStore, reports store.ReportsStore, logger *utils.Logger) *Scheduler {
	return &Scheduler{
		cfg:     cfg,
		tokens:  tokens,
		reports: reports,
		logger:  logger,
		cron:    cron.New(),
	}
}

func (s *Scheduler) Start() error {
	if s.cfg == nil || !s.cfg.Scheduler.Enabled {
		s.logger.Printf("SCHEDULER disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.PurgeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.purgeOnce(ctx); err != nil {
			s.logger.Errorf("SCHEDULER purge: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule purge %q: %w", s.cfg.Scheduler.PurgeSpec, err)
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.StatsSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := s.snapshotOnce(ctx); err != nil {
			s.logger.Errorf("SCHEDULER snapshot: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule snapshot %q: %w", s.cfg.Scheduler.StatsSpec, err)
	}
	s.cron.Start()
	s.logger.Printf("SCHEDULER started (purge %q, snapshot %q)", s.cfg.Scheduler.PurgeSpec, s.cfg.Scheduler.StatsSpec)
	return nil
}

// Stop waits for a running job to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) purgeOnce(ctx context.Context) error {
	purged, err := s.tokens.PurgeExpired(ctx, utils.NowUTC())
	if err != nil {
		return err
	}
	if purged > 0 {
		s.logger.Printf("SCHEDULER purged %d expired token revocations", purged)
	}
	return nil
}

func (s *Scheduler) snapshotOnce(ctx context.Context) error {
	counts, err := s.reports.CountByStatus(ctx)
	if err != nil {
		return err
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	s.logger.Printf("SCHEDULER reports snapshot: total=%d pending=%d under_investigation=%d resolved=%d rejected=%d",
		total,
		counts[store.StatusPending],
		counts[store.StatusUnderInvestigation],
		counts[store.StatusResolved],
		counts[store.StatusRejected])
	return nil
}
