// Package jobs runs the periodic maintenance tasks: pruning expired
// rate-limit rows and rolling event statuses forward from their dates.
package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/nexus-esports/nexushub/config"
	"github.com/nexus-esports/nexushub/internal/event"
	"github.com/nexus-esports/nexushub/internal/registration"
)

// Scheduler owns the background job loop.
type Scheduler struct {
	sched  gocron.Scheduler
	events event.EventRepository
	regs   registration.RegistrationRepository
	cfg    *config.Config
}

// NewScheduler creates a new scheduler
func NewScheduler(events event.EventRepository, regs registration.RegistrationRepository, cfg *config.Config) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Scheduler{sched: sched, events: events, regs: regs, cfg: cfg}, nil
}

// Start registers the jobs and kicks off the loop.
func (s *Scheduler) Start() error {
	// Hourly: drop rate-limit rows past their retention window. Intake
	// also prunes opportunistically, this is the backstop.
	_, err := s.sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(s.purgeRateLimits),
	)
	if err != nil {
		return err
	}

	// Every 10 minutes: move events whose end date has passed to "past"
	// so listings stay correct without an admin touching them.
	_, err = s.sched.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(s.rollEventStatuses),
	)
	if err != nil {
		return err
	}

	s.sched.Start()
	return nil
}

// Stop shuts the loop down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	return s.sched.Shutdown()
}

func (s *Scheduler) purgeRateLimits() {
	ttl := time.Duration(s.cfg.RateLimit.RecordTTLHours) * time.Hour
	cutoff := time.Now().Add(-ttl)
	n, err := s.regs.PurgeAttemptsBefore(cutoff)
	if err != nil {
		log.Printf("[jobs] purge rate limits: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[jobs] purged %d expired rate-limit rows", n)
	}
}

func (s *Scheduler) rollEventStatuses() {
	n, err := s.events.RollPastEvents()
	if err != nil {
		log.Printf("[jobs] roll event statuses: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[jobs] marked %d events as past", n)
	}
}
