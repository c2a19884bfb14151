package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/billtrack/invoice-system/internal/api/metrics"
	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

const defaultReminderWorkers = 4

// dueDateFormat is how due dates appear in reminder bodies.
const dueDateFormat = "January 2, 2006"

// ReminderService walks every non-terminal invoice once per invocation and
// fires the reminders whose calendar threshold matches that day. It carries
// no cross-invocation state: idempotence per day holds only because
// daysUntilDue strictly decreases by one per calendar day.
type ReminderService struct {
	invoices   ports.InvoiceRepository
	users      ports.UserRepository
	notifier   ports.Notifier
	lock       ports.RunLock // optional; serializes concurrent invocations
	adminEmail string
	workers    int
	nowFn      func() time.Time
	logger     zerolog.Logger
}

func NewReminderService(
	invoices ports.InvoiceRepository,
	users ports.UserRepository,
	notifier ports.Notifier,
	lock ports.RunLock,
	adminEmail string,
	workers int,
	logger zerolog.Logger,
) *ReminderService {
	if workers <= 0 {
		workers = defaultReminderWorkers
	}
	return &ReminderService{
		invoices:   invoices,
		users:      users,
		notifier:   notifier,
		lock:       lock,
		adminEmail: adminEmail,
		workers:    workers,
		nowFn:      time.Now,
		logger:     logger,
	}
}

// ProcessInvoiceReminders runs one full reminder pass and returns the
// number of successful sends. Failures on individual invoices are logged
// and skipped; only a failure of the initial fetch is returned. Once the
// fetch succeeds the pass always runs to completion over that invoice set.
func (s *ReminderService) ProcessInvoiceReminders(ctx context.Context) (int, error) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("reminder lock unavailable, processing anyway")
		} else if !acquired {
			return 0, domain.ErrReminderRunning
		} else {
			defer func() {
				if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
					s.logger.Warn().Err(relErr).Msg("failed to release reminder lock")
				}
			}()
		}
	}

	start := s.nowFn()
	s.logger.Info().Msg("running invoice reminder check")

	invoices, err := s.invoices.ListRemindable(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("reminder fetch failed")
		return 0, err
	}

	today := startOfDay(start)

	// Fan out across invoices. Each invoice is handled wholly by one worker,
	// so its notification-log appends keep their order; ordering between
	// invoices carries no guarantee.
	jobs := make(chan *domain.Invoice)
	var sent int64
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inv := range jobs {
				atomic.AddInt64(&sent, int64(s.processInvoice(ctx, inv, today)))
			}
		}()
	}
	for _, inv := range invoices {
		jobs <- inv
	}
	close(jobs)
	wg.Wait()

	metrics.ReminderRunsTotal.Inc()
	metrics.ReminderRunDuration.Observe(time.Since(start).Seconds())
	s.logger.Info().
		Int("invoices_checked", len(invoices)).
		Int64("emails_sent", sent).
		Msg("invoice reminder check completed")

	return int(sent), nil
}

// processInvoice evaluates one invoice against the threshold table and
// returns the number of successful sends. Nothing raised here escapes: the
// remaining invoices must keep processing.
func (s *ReminderService) processInvoice(ctx context.Context, inv *domain.Invoice, today time.Time) (sent int) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("invoice_id", inv.ID).Msg("reminder processing panicked")
		}
	}()

	days := daysUntilDue(inv.DueDate, today)
	if days != 14 && days != 7 && days != 1 {
		return 0
	}

	data := s.buildReminderData(ctx, inv)

	switch days {
	case 14:
		if s.notifier.Notify(ctx, inv.ID, domain.KindClient14Days, data.ClientEmail, data) {
			sent++
		}
	case 7:
		if s.notifier.Notify(ctx, inv.ID, domain.KindClient7Days, data.ClientEmail, data) {
			sent++
		}
		if s.notifier.Notify(ctx, inv.ID, domain.KindSales7Days, data.SalesEmail, data) {
			sent++
		}
	case 1:
		if s.notifier.Notify(ctx, inv.ID, domain.KindManager1Day, s.adminEmail, data) {
			sent++
		}
	}
	return sent
}

// buildReminderData resolves the invoice's accounts and assembles the
// template payload shared by every kind fired for this invoice. Resolution
// failures leave the affected addresses empty; the dispatcher records those
// attempts as failures instead of aborting the invoice.
func (s *ReminderService) buildReminderData(ctx context.Context, inv *domain.Invoice) ports.ReminderData {
	data := ports.ReminderData{
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		Amount:        inv.Amount,
		DueDate:       inv.DueDate.UTC().Format(dueDateFormat),
	}
	if data.InvoiceNumber == "" {
		data.InvoiceNumber = inv.ID
	}

	if client, err := s.users.FindByID(ctx, inv.ClientID); err == nil {
		data.ClientName = client.FullName()
		data.ClientEmail = client.Email
	} else {
		s.logger.Warn().Err(err).Str("invoice_id", inv.ID).Str("client_id", inv.ClientID).Msg("client lookup failed")
	}

	if salesPerson, err := s.users.FindByID(ctx, inv.SalesPersonID); err == nil {
		data.SalesEmail = salesPerson.Email
	} else {
		s.logger.Warn().Err(err).Str("invoice_id", inv.ID).Str("sales_person_id", inv.SalesPersonID).Msg("sales person lookup failed")
	}

	return data
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysUntilDue is the calendar-day delta between the due date and today,
// time-of-day discarded. Negative for overdue invoices.
func daysUntilDue(due, today time.Time) int {
	return int(startOfDay(due).Sub(today).Hours() / 24)
}
