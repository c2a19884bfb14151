package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type notifyCall struct {
	invoiceID string
	kind      domain.NotificationKind
	recipient string
}

type stubNotifier struct {
	mu       sync.Mutex
	calls    []notifyCall
	failFor  map[string]bool // invoice ids whose sends fail
	panicFor string          // invoice id whose send panics
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{failFor: make(map[string]bool)}
}

func (n *stubNotifier) Notify(_ context.Context, invoiceID string, kind domain.NotificationKind, recipient string, _ ports.ReminderData) bool {
	if invoiceID == n.panicFor {
		panic("notifier blew up")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{invoiceID: invoiceID, kind: kind, recipient: recipient})
	return !n.failFor[invoiceID]
}

func (n *stubNotifier) callsFor(invoiceID string) []notifyCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []notifyCall
	for _, c := range n.calls {
		if c.invoiceID == invoiceID {
			out = append(out, c)
		}
	}
	return out
}

type stubRunLock struct {
	held       bool
	acquireErr error
	releases   int
}

func (l *stubRunLock) Acquire(_ context.Context) (bool, error) {
	if l.acquireErr != nil {
		return false, l.acquireErr
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *stubRunLock) Release(_ context.Context) error {
	l.held = false
	l.releases++
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var reminderNow = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

// dueIn returns a due date n calendar days after reminderNow, with an odd
// time of day to prove the delta ignores clock time.
func dueIn(n int) time.Time {
	return time.Date(2026, 9, 1+n, 23, 45, 0, 0, time.UTC)
}

func newReminderFixture(t *testing.T) (*ReminderService, *stubInvoiceRepo, *stubUserRepo, *stubNotifier) {
	t.Helper()
	invoices := newStubInvoiceRepo()
	users := newStubUserRepo()
	users.add("client-1", domain.RoleClient, "alice@example.com", "Alice", "Nguyen")
	users.add("sales-1", domain.RoleSales, "rep@example.com", "Rita", "Reyes")
	notifier := newStubNotifier()

	svc := NewReminderService(invoices, users, notifier, nil, "boss@example.com", 2, discardLogger)
	svc.nowFn = func() time.Time { return reminderNow }
	return svc, invoices, users, notifier
}

func seedInvoice(repo *stubInvoiceRepo, id string, status domain.InvoiceStatus, due time.Time) {
	repo.byID[id] = &domain.Invoice{
		ID:            id,
		ClientID:      "client-1",
		SalesPersonID: "sales-1",
		ClientName:    "Alice Nguyen",
		Amount:        100,
		DueDate:       due,
		Status:        status,
	}
}

// ---------------------------------------------------------------------------
// Threshold tests
// ---------------------------------------------------------------------------

func TestReminderService_FourteenDays_ClientOnly(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-14", domain.StatusPending, dueIn(14))

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 send, got %d", sent)
	}

	calls := notifier.callsFor("inv-14")
	if len(calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(calls))
	}
	if calls[0].kind != domain.KindClient14Days {
		t.Errorf("expected kind %q, got %q", domain.KindClient14Days, calls[0].kind)
	}
	if calls[0].recipient != "alice@example.com" {
		t.Errorf("expected client recipient, got %q", calls[0].recipient)
	}
}

func TestReminderService_SevenDays_ClientThenSales(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-7", domain.StatusOverdue, dueIn(7))

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 2 {
		t.Errorf("expected 2 sends, got %d", sent)
	}

	calls := notifier.callsFor("inv-7")
	if len(calls) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(calls))
	}
	if calls[0].kind != domain.KindClient7Days || calls[0].recipient != "alice@example.com" {
		t.Errorf("first notification wrong: %+v", calls[0])
	}
	if calls[1].kind != domain.KindSales7Days || calls[1].recipient != "rep@example.com" {
		t.Errorf("second notification wrong: %+v", calls[1])
	}
}

func TestReminderService_OneDay_ManagerOnly(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-1", domain.StatusPending, dueIn(1))

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 send, got %d", sent)
	}

	calls := notifier.callsFor("inv-1")
	if len(calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(calls))
	}
	if calls[0].kind != domain.KindManager1Day {
		t.Errorf("expected kind %q, got %q", domain.KindManager1Day, calls[0].kind)
	}
	if calls[0].recipient != "boss@example.com" {
		t.Errorf("expected admin recipient, got %q", calls[0].recipient)
	}
}

func TestReminderService_OffThresholdDaysSendNothing(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-13", domain.StatusPending, dueIn(13))
	seedInvoice(repo, "inv-2", domain.StatusPending, dueIn(2))
	seedInvoice(repo, "inv-0", domain.StatusPending, dueIn(0))
	seedInvoice(repo, "inv-past", domain.StatusOverdue, dueIn(-3))

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 0 {
		t.Errorf("expected 0 sends, got %d", sent)
	}
	if len(notifier.calls) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifier.calls))
	}
}

func TestReminderService_TerminalStatusesExcluded(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-paid", domain.StatusPaid, dueIn(14))
	seedInvoice(repo, "inv-cancelled", domain.StatusCancelled, dueIn(7))
	seedInvoice(repo, "inv-live", domain.StatusPending, dueIn(14))

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 send, got %d", sent)
	}
	if got := notifier.callsFor("inv-paid"); len(got) != 0 {
		t.Errorf("paid invoice must not be processed, got %d calls", len(got))
	}
	if got := notifier.callsFor("inv-cancelled"); len(got) != 0 {
		t.Errorf("cancelled invoice must not be processed, got %d calls", len(got))
	}
}

// ---------------------------------------------------------------------------
// Failure isolation
// ---------------------------------------------------------------------------

func TestReminderService_CountsOnlySuccessfulSends(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-a", domain.StatusPending, dueIn(14))
	seedInvoice(repo, "inv-b", domain.StatusPending, dueIn(14))
	notifier.failFor["inv-a"] = true

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 successful send, got %d", sent)
	}
}

func TestReminderService_PanicOnOneInvoiceDoesNotAbortRun(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-bad", domain.StatusPending, dueIn(14))
	seedInvoice(repo, "inv-good", domain.StatusPending, dueIn(14))
	notifier.panicFor = "inv-bad"

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected the healthy invoice to still be sent, got %d", sent)
	}
	if got := notifier.callsFor("inv-good"); len(got) != 1 {
		t.Errorf("expected 1 call for the healthy invoice, got %d", len(got))
	}
}

func TestReminderService_MissingClientStillNotifies(t *testing.T) {
	svc, repo, users, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-orphan", domain.StatusPending, dueIn(14))
	delete(users.byID, "client-1")

	_, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The dispatcher sees an empty recipient and records the failure; the
	// run itself must not error out.
	calls := notifier.callsFor("inv-orphan")
	if len(calls) != 1 {
		t.Fatalf("expected 1 attempted notification, got %d", len(calls))
	}
	if calls[0].recipient != "" {
		t.Errorf("expected empty recipient after failed lookup, got %q", calls[0].recipient)
	}
}

func TestReminderService_FetchFailureReturnsError(t *testing.T) {
	svc, repo, _, _ := newReminderFixture(t)
	repo.listErr = errors.New("mongo down")

	if _, err := svc.ProcessInvoiceReminders(context.Background()); err == nil {
		t.Fatal("expected error when the invoice fetch fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// Run lock
// ---------------------------------------------------------------------------

func TestReminderService_LockHeldReturnsReminderRunning(t *testing.T) {
	svc, repo, _, _ := newReminderFixture(t)
	seedInvoice(repo, "inv-14", domain.StatusPending, dueIn(14))
	lock := &stubRunLock{held: true}
	svc.lock = lock

	_, err := svc.ProcessInvoiceReminders(context.Background())
	if !errors.Is(err, domain.ErrReminderRunning) {
		t.Fatalf("expected ErrReminderRunning, got %v", err)
	}
}

func TestReminderService_LockReleasedAfterRun(t *testing.T) {
	svc, repo, _, _ := newReminderFixture(t)
	seedInvoice(repo, "inv-14", domain.StatusPending, dueIn(14))
	lock := &stubRunLock{}
	svc.lock = lock

	if _, err := svc.ProcessInvoiceReminders(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.held {
		t.Error("lock must be released after the run")
	}
	if lock.releases != 1 {
		t.Errorf("expected 1 release, got %d", lock.releases)
	}
}

func TestReminderService_LockErrorProceedsAnyway(t *testing.T) {
	svc, repo, _, notifier := newReminderFixture(t)
	seedInvoice(repo, "inv-14", domain.StatusPending, dueIn(14))
	svc.lock = &stubRunLock{acquireErr: errors.New("redis down")}

	sent, err := svc.ProcessInvoiceReminders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 || len(notifier.calls) != 1 {
		t.Errorf("a broken lock backend must not block the run: sent=%d calls=%d", sent, len(notifier.calls))
	}
}

// ---------------------------------------------------------------------------
// Day arithmetic
// ---------------------------------------------------------------------------

func TestDaysUntilDue_IgnoresTimeOfDay(t *testing.T) {
	today := startOfDay(time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC))

	cases := []struct {
		due  time.Time
		want int
	}{
		{time.Date(2026, 9, 15, 0, 1, 0, 0, time.UTC), 14},
		{time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC), 7},
		{time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC), -2},
	}
	for _, tc := range cases {
		if got := daysUntilDue(tc.due, today); got != tc.want {
			t.Errorf("daysUntilDue(%v) = %d, want %d", tc.due, got, tc.want)
		}
	}
}
