package scheduler

import (
	"context"
	"time"

	"github.com/plan2509/tms-final/internal/app"
	"github.com/plan2509/tms-final/internal/domain/civil"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DispatchScheduler fires the dispatch run on a cron spec evaluated in the
// civil timezone. It is an optional convenience; production environments
// may instead hit the HTTP trigger from an external scheduler.
type DispatchScheduler struct {
	cronEngine      *cron.Cron
	dispatchService app.DispatchService
	logger          *logrus.Logger
	cronSpec        string
}

func NewDispatchScheduler(
	dispatchService app.DispatchService,
	logger *logrus.Logger,
	cronSpec string, // e.g. "0 * * * *" (hourly, on the hour)
) *DispatchScheduler {
	return &DispatchScheduler{
		cronEngine:      cron.New(cron.WithLocation(civil.Zone)),
		dispatchService: dispatchService,
		logger:          logger,
		cronSpec:        cronSpec,
	}
}

func (s *DispatchScheduler) Start() error {
	// No category: unattended runs follow the default policy (tax
	// reminders only; station reminders are explicit opt-in).
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for notification dispatch.")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		summary, err := s.dispatchService.Dispatch(ctx, "", time.Now())
		if err != nil {
			s.logger.Errorf("Scheduled dispatch run failed: %v", err)
			return
		}
		s.logger.Infof("Scheduled dispatch run finished. tax=%d station=%d manual=%d",
			summary.Dispatched, summary.DispatchedStation, summary.DispatchedManual)
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Infof("Dispatch scheduler started with spec %q.", s.cronSpec)
	return nil
}

func (s *DispatchScheduler) Stop() {
	s.logger.Info("Stopping dispatch scheduler...")
	ctx := s.cronEngine.Stop() // Waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Dispatch scheduler gracefully stopped.")
}
