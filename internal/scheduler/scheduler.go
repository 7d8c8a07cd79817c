package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Loader is the part of weather.Session the scheduler drives.
type Loader interface {
	Load()
}

// Scheduler periodically asks the session to reload the forecast.
type Scheduler struct {
	scheduler *gocron.Scheduler
	loader    Loader
	interval  time.Duration
}

// New creates a new Scheduler. An interval <= 0 disables periodic loads.
func New(interval time.Duration, loader Loader) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		loader:    loader,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first load runs immediately.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Println("scheduler: refresh interval disabled; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		log.Println("scheduler: running weather load job")
		s.loader.Load()
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Running reports whether the periodic job is active.
func (s *Scheduler) Running() bool {
	return s.scheduler != nil && s.scheduler.IsRunning()
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
