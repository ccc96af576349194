package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/clinicstock/internal/config"
	"github.com/mamadbah2/clinicstock/internal/domain/models"
)

// Refresher re-runs the inventory fetch.
type Refresher interface {
	Refresh()
}

// LowStockPublisher builds and sends the low-stock report.
type LowStockPublisher interface {
	Publish(ctx context.Context) (models.LowStockReport, error)
}

// Scheduler manages scheduled tasks. It owns the periodic refresh signal.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	reporting LowStockPublisher
	cfg       config.SchedulerConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. reporting may be nil.
func NewScheduler(cfg config.SchedulerConfig, refresher Refresher, reporting LowStockPublisher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc := time.Local
	if cfg.Timezone != "" {
		if l, err := time.LoadLocation(cfg.Timezone); err == nil {
			loc = l
		} else {
			logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		}
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		refresher: refresher,
		reporting: reporting,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if s.cfg.RefreshSchedule != "" && s.refresher != nil {
		if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refresh); err != nil {
			return fmt.Errorf("schedule inventory refresh %q: %w", s.cfg.RefreshSchedule, err)
		}
	}

	if s.cfg.LowStockSchedule != "" && s.reporting != nil {
		if _, err := s.cron.AddFunc(s.cfg.LowStockSchedule, s.publishLowStock); err != nil {
			return fmt.Errorf("schedule low stock report %q: %w", s.cfg.LowStockSchedule, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Jobs reports how many jobs are registered.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) refresh() {
	s.logger.Debug("scheduled inventory refresh")
	s.refresher.Refresh()
}

func (s *Scheduler) publishLowStock() {
	s.logger.Info("generating low stock report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reporting.Publish(ctx)
	if err != nil {
		s.logger.Error("failed to publish low stock report", zap.Error(err))
		return
	}
	s.logger.Info("low stock report published", zap.Int("total", report.Total))
}
