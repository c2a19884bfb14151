package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type deliveredMail struct {
	from, to, subject, text, html string
}

type stubMailer struct {
	sent       []deliveredMail
	deliverErr error
}

func (m *stubMailer) Deliver(_ context.Context, from, to, subject, textBody, htmlBody string) error {
	if m.deliverErr != nil {
		return m.deliverErr
	}
	m.sent = append(m.sent, deliveredMail{from: from, to: to, subject: subject, text: textBody, html: htmlBody})
	return nil
}

// stubNotificationLog records AppendNotification calls; the embedded
// interface panics on anything else the dispatcher has no business calling.
type stubNotificationLog struct {
	ports.InvoiceRepository
	entries   map[string][]domain.EmailNotification
	appendErr error
}

func newStubNotificationLog() *stubNotificationLog {
	return &stubNotificationLog{entries: make(map[string][]domain.EmailNotification)}
}

func (s *stubNotificationLog) AppendNotification(_ context.Context, id string, n domain.EmailNotification) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries[id] = append(s.entries[id], n)
	return nil
}

func newDispatcherFixture() (*Dispatcher, *stubMailer, *stubNotificationLog) {
	mailer := &stubMailer{}
	log := newStubNotificationLog()
	return NewDispatcher(mailer, log, "billing@example.com", zerolog.Nop()), mailer, log
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestDispatcher_SuccessfulDeliveryRecorded(t *testing.T) {
	d, mailer, repo := newDispatcherFixture()

	ok := d.Notify(context.Background(), "inv-1", domain.KindClient14Days, "alice@example.com", sampleData())
	if !ok {
		t.Fatal("expected delivery to succeed")
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(mailer.sent))
	}
	if mailer.sent[0].to != "alice@example.com" || mailer.sent[0].from != "billing@example.com" {
		t.Errorf("unexpected envelope: %+v", mailer.sent[0])
	}

	entries := repo.entries["inv-1"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if !entries[0].Success || entries[0].Kind != domain.KindClient14Days || entries[0].Recipient != "alice@example.com" {
		t.Errorf("unexpected log entry: %+v", entries[0])
	}
	if entries[0].SentAt.IsZero() {
		t.Error("log entry must be timestamped")
	}
}

func TestDispatcher_EmptyRecipientIsNoOpFailure(t *testing.T) {
	d, mailer, repo := newDispatcherFixture()

	ok := d.Notify(context.Background(), "inv-1", domain.KindManager1Day, "", sampleData())
	if ok {
		t.Fatal("empty recipient must report failure")
	}
	if len(mailer.sent) != 0 {
		t.Errorf("no delivery must be attempted, got %d", len(mailer.sent))
	}

	// The failed attempt still lands in the audit log.
	entries := repo.entries["inv-1"]
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Success {
		t.Error("log entry must record failure")
	}
}

func TestDispatcher_TransportErrorIsFailure(t *testing.T) {
	d, mailer, repo := newDispatcherFixture()
	mailer.deliverErr = errors.New("smtp unreachable")

	ok := d.Notify(context.Background(), "inv-1", domain.KindClient7Days, "alice@example.com", sampleData())
	if ok {
		t.Fatal("transport error must report failure")
	}

	entries := repo.entries["inv-1"]
	if len(entries) != 1 || entries[0].Success {
		t.Errorf("failed attempt must be logged as failure: %+v", entries)
	}
}

func TestDispatcher_LogAppendFailureDoesNotFlipOutcome(t *testing.T) {
	d, _, repo := newDispatcherFixture()
	repo.appendErr = errors.New("mongo down")

	ok := d.Notify(context.Background(), "inv-1", domain.KindClient14Days, "alice@example.com", sampleData())
	if !ok {
		t.Fatal("a log write failure must not turn a delivered reminder into a failure")
	}
}
