package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/meatledger/internal/clock"
	"github.com/mamadbah2/meatledger/internal/config"
	"github.com/mamadbah2/meatledger/internal/domain/models"
	"github.com/mamadbah2/meatledger/internal/repository/mongodb"
	"github.com/mamadbah2/meatledger/internal/service/reporting"
)

const runTimeout = 2 * time.Minute

// ReportBuilder produces the daily snapshot.
type ReportBuilder interface {
	DailyReport(ctx context.Context, date string) (models.DailyReport, error)
}

// Notifier pushes text messages, typically the WhatsApp service.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	clock    clock.Clock
	reports  ReportBuilder
	archive  mongodb.ReportArchive
	notifier Notifier
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and notifier are optional.
func NewScheduler(cfg config.ReportingConfig, clk clock.Clock, reports ReportBuilder, archive mongodb.ReportArchive, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// standard five-field specs, evaluated in the business timezone
	c := cron.New(cron.WithLocation(clk.Now().Location()))

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		clock:    clk,
		reports:  reports,
		archive:  archive,
		notifier: notifier,
		logger:   logger,
	}
}

// Start registers the daily report job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.dailyReportJob); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.cfg.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) dailyReportJob() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.RunDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
	}
}

// RunDailyReport builds today's report, archives it and sends it to the
// configured recipient. Delivery steps run even when an earlier one fails.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	date := s.clock.Today()
	s.logger.Info("generating daily report", zap.String("date", date))

	report, err := s.reports.DailyReport(ctx, date)
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}

	var errs []error
	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("archive daily report: %w", err))
		}
	}

	if s.notifier != nil && s.cfg.Recipient != "" {
		req := models.OutboundMessageRequest{
			To:      s.cfg.Recipient,
			Message: reporting.FormatDailyReport(report),
		}
		if err := s.notifier.SendOutbound(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("send daily report: %w", err))
		} else {
			s.logger.Info("daily report sent", zap.String("date", date))
		}
	}

	return errors.Join(errs...)
}
