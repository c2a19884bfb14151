package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/billtrack/invoice-system/internal/api/metrics"
	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// Dispatcher renders reminder messages, attempts delivery through the mail
// transport, and always records the outcome in the invoice's notification
// log. Nothing it does raises past its boundary: every failure becomes a
// false return plus a logged diagnostic.
type Dispatcher struct {
	mailer   ports.Mailer
	invoices ports.InvoiceRepository
	from     string
	logger   zerolog.Logger
}

func NewDispatcher(mailer ports.Mailer, invoices ports.InvoiceRepository, from string, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{mailer: mailer, invoices: invoices, from: from, logger: logger}
}

// Notify sends one reminder and appends the outcome to the invoice's
// notification log, success or not. Reports whether delivery succeeded.
func (d *Dispatcher) Notify(ctx context.Context, invoiceID string, kind domain.NotificationKind, recipient string, data ports.ReminderData) bool {
	success := d.send(ctx, invoiceID, kind, recipient, data)

	outcome := "failure"
	if success {
		outcome = "success"
	}
	metrics.RemindersSentTotal.WithLabelValues(string(kind), outcome).Inc()

	d.recordOutcome(ctx, invoiceID, kind, recipient, success)
	return success
}

// send attempts one delivery. An empty recipient is a no-op failure: some
// accounts have no email on record and that must not abort the run.
func (d *Dispatcher) send(ctx context.Context, invoiceID string, kind domain.NotificationKind, recipient string, data ports.ReminderData) bool {
	if recipient == "" {
		d.logger.Warn().
			Str("invoice_id", invoiceID).
			Str("kind", string(kind)).
			Msg("no recipient email, skipping delivery")
		return false
	}

	msg := Render(kind, data)
	if err := d.mailer.Deliver(ctx, d.from, recipient, msg.Subject, msg.Text, msg.HTML); err != nil {
		d.logger.Error().Err(err).
			Str("invoice_id", invoiceID).
			Str("kind", string(kind)).
			Str("recipient", recipient).
			Msg("reminder delivery failed")
		return false
	}

	d.logger.Info().
		Str("invoice_id", invoiceID).
		Str("kind", string(kind)).
		Str("recipient", recipient).
		Msg("reminder sent")
	return true
}

// recordOutcome appends the attempt to the notification log. Best-effort:
// an append failure leaves the outcome in process logs only.
func (d *Dispatcher) recordOutcome(ctx context.Context, invoiceID string, kind domain.NotificationKind, recipient string, success bool) {
	entry := domain.EmailNotification{
		Kind:      kind,
		Recipient: recipient,
		Success:   success,
		SentAt:    time.Now().UTC(),
	}
	if err := d.invoices.AppendNotification(ctx, invoiceID, entry); err != nil {
		d.logger.Error().Err(err).
			Str("invoice_id", invoiceID).
			Str("kind", string(kind)).
			Msg("failed to record notification outcome")
	}
}
