// Package scheduler owns the calendar trigger for the reminder job. It is
// deliberately independent of application bootstrap: construct it, Start it,
// Stop it. Tests call ProcessInvoiceReminders on the service directly and
// never need a running timer.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// defaultRunHours mirrors the production schedule: a midnight pass and an
// additional morning pass, both UTC.
var defaultRunHours = []int{0, 9}

// Scheduler fires ProcessInvoiceReminders at fixed UTC hours each day.
type Scheduler struct {
	reminders ports.ReminderService
	hours     []int
	nowFn     func() time.Time
	logger    zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func New(reminders ports.ReminderService, hours []int, logger zerolog.Logger) *Scheduler {
	if len(hours) == 0 {
		hours = defaultRunHours
	}
	sorted := make([]int, len(hours))
	copy(sorted, hours)
	sort.Ints(sorted)

	return &Scheduler{
		reminders: reminders,
		hours:     sorted,
		nowFn:     time.Now,
		logger:    logger,
	}
}

// Start launches the trigger goroutine. It returns immediately; the first
// run happens at the next configured hour, not at startup.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.logger.Info().Ints("run_hours_utc", s.hours).Msg("reminder scheduler started")

	go func() {
		defer close(s.done)
		for {
			wait := time.Until(s.nextRun(s.nowFn()))
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				s.run(ctx)
			}
		}
	}()
}

// Stop cancels the trigger and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	sent, err := s.reminders.ProcessInvoiceReminders(ctx)
	switch {
	case errors.Is(err, domain.ErrReminderRunning):
		s.logger.Warn().Msg("scheduled reminder run skipped, another run in progress")
	case err != nil:
		s.logger.Error().Err(err).Msg("scheduled reminder run failed")
	default:
		s.logger.Info().Int("emails_sent", sent).Msg("scheduled reminder run completed")
	}
}

// nextRun returns the next configured UTC hour strictly after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	now = now.UTC()
	for _, h := range s.hours {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), h, 0, 0, 0, time.UTC)
		if candidate.After(now) {
			return candidate
		}
	}
	// All of today's slots have passed; first slot tomorrow.
	return time.Date(now.Year(), now.Month(), now.Day(), s.hours[0], 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
