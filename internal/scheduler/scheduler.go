package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-mailer/internal/weather"
)

// Runner is the part of the notifier the scheduler drives.
type Runner interface {
	Run(ctx context.Context, recipients []weather.Recipient) (weather.Summary, error)
}

// Scheduler periodically sends notifications to the configured recipients.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	runner     Runner
	recipients []weather.Recipient
	interval   time.Duration
	timeout    time.Duration
}

// New creates a new Scheduler. A cycle that has not finished after timeout is
// cancelled (0 = no deadline).
func New(recipients []weather.Recipient, interval, timeout time.Duration, runner Runner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:  s,
		runner:     runner,
		recipients: recipients,
		interval:   interval,
		timeout:    timeout,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first cycle runs immediately.
func (s *Scheduler) Start() error {
	if len(s.recipients) == 0 {
		log.Println("scheduler: no recipients configured; nothing to schedule")
		return nil
	}

	interval := s.interval
	if interval < time.Minute {
		interval = 24 * time.Hour
	}

	_, err := s.scheduler.Every(interval).Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) runOnce() {
	log.Println("scheduler: running delivery job")

	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	summary, err := s.runner.Run(ctx, s.recipients)
	if err != nil {
		log.Printf("scheduler: delivery job finished with errors: %v", err)
	}
	log.Printf("scheduler: completed delivery job (%d/%d sent)", summary.Sent, summary.Total)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
