package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/i474232898/commodity-dashboard/internal/market"
)

// Refresher is the part of market.Service the scheduler drives.
type Refresher interface {
	RefreshWithTimeout(ctx context.Context) (market.Dataset, error)
}

// Scheduler periodically reloads the active dataset from its source.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   Refresher
	interval  time.Duration
	logger    *logrus.Logger
}

// New creates a new Scheduler. An interval of zero disables periodic refresh.
func New(interval time.Duration, service Refresher, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the refresh job and starts the underlying scheduler.
// The first run happens one interval after Start; callers load the initial
// dataset themselves.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: refresh interval is zero; periodic refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.WithField("interval", s.interval.String()).Info("scheduler: started")
	return nil
}

func (s *Scheduler) run() {
	s.logger.Debug("scheduler: running dataset refresh job")
	if _, err := s.service.RefreshWithTimeout(context.Background()); err != nil {
		s.logger.WithError(err).Error("scheduler: refresh failed")
		return
	}
	s.logger.Debug("scheduler: completed dataset refresh job")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
