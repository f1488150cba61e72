package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"stepik-analytics/internal/logger"
)

// Scheduler triggers a full sync on a fixed interval. It owns no sync state;
// each tick calls SyncAll with a fresh context.
type Scheduler struct {
	log      *logger.Logger
	sync     SyncService
	enabled  bool
	interval time.Duration
	cron     *cron.Cron
}

func NewScheduler(baseLog *logger.Logger, sync SyncService, enabled bool, interval time.Duration) *Scheduler {
	return &Scheduler{
		log:      baseLog.With("service", "Scheduler"),
		sync:     sync,
		enabled:  enabled,
		interval: interval,
	}
}

func (s *Scheduler) Start() error {
	if !s.enabled {
		s.log.Info("auto sync disabled")
		return nil
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := c.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	c.Start()
	s.cron = c
	s.log.Info("auto sync scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		s.cron = nil
	}
}

func (s *Scheduler) runOnce() {
	s.log.Info("auto sync started")
	if err := s.sync.SyncAll(context.Background()); err != nil {
		s.log.Error("auto sync failed", "error", err)
		return
	}
	s.log.Info("auto sync finished")
}
