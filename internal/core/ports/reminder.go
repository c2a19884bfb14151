package ports

import (
	"context"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// ReminderData is the template payload built once per invoice and shared by
// every notification kind fired for it. DueDate is already formatted for
// display.
type ReminderData struct {
	ClientName    string
	InvoiceNumber string
	Amount        float64
	DueDate       string
	ClientEmail   string
	SalesEmail    string
}

// Notifier renders a reminder, attempts delivery, and records the outcome
// in the invoice's notification log. It reports whether delivery succeeded
// and never returns an error: transport and log failures stay inside.
type Notifier interface {
	Notify(ctx context.Context, invoiceID string, kind domain.NotificationKind, recipient string, data ReminderData) bool
}

// RunLock serializes reminder invocations so a manual trigger cannot
// overlap a scheduled run. It is a mutex, not a dedup record: a second
// run after release behaves exactly like the first.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// ReminderService walks all non-terminal invoices once per invocation and
// dispatches the reminders whose day threshold matches, returning the
// number of successful sends.
type ReminderService interface {
	ProcessInvoiceReminders(ctx context.Context) (int, error)
}
