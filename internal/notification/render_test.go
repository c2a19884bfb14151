package notification

import (
	"strings"
	"testing"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

func sampleData() ports.ReminderData {
	return ports.ReminderData{
		ClientName:    "Alice Nguyen",
		InvoiceNumber: "INV-2026-001",
		Amount:        1234.5,
		DueDate:       "September 15, 2026",
		ClientEmail:   "alice@example.com",
		SalesEmail:    "rep@example.com",
	}
}

func TestRender_AllKindsProduceContent(t *testing.T) {
	kinds := []domain.NotificationKind{
		domain.KindClient14Days,
		domain.KindClient7Days,
		domain.KindSales7Days,
		domain.KindManager1Day,
	}
	for _, kind := range kinds {
		msg := Render(kind, sampleData())
		if msg.IsZero() {
			t.Errorf("%s: rendered to zero message", kind)
			continue
		}
		if msg.Subject == "" || msg.Text == "" || msg.HTML == "" {
			t.Errorf("%s: incomplete message: %+v", kind, msg)
		}
		if !strings.Contains(msg.Text, "INV-2026-001") {
			t.Errorf("%s: text body missing invoice number", kind)
		}
		if !strings.Contains(msg.HTML, "1234.50") {
			t.Errorf("%s: html body missing formatted amount", kind)
		}
	}
}

func TestRender_IsPure(t *testing.T) {
	a := Render(domain.KindClient7Days, sampleData())
	b := Render(domain.KindClient7Days, sampleData())
	if a != b {
		t.Error("identical inputs must render identical messages")
	}
}

func TestRender_UnknownKindYieldsZeroMessage(t *testing.T) {
	msg := Render(domain.NotificationKind("weekly_digest"), sampleData())
	if !msg.IsZero() {
		t.Errorf("unknown kind must render to the zero message, got %+v", msg)
	}
}

func TestRender_SalesKindIncludesClientContact(t *testing.T) {
	msg := Render(domain.KindSales7Days, sampleData())
	if !strings.Contains(msg.HTML, "alice@example.com") {
		t.Error("sales reminder must surface the client's contact details")
	}
}

func TestRender_ManagerKindIncludesSalesContact(t *testing.T) {
	msg := Render(domain.KindManager1Day, sampleData())
	if !strings.Contains(msg.HTML, "rep@example.com") {
		t.Error("manager alert must surface the sales rep's contact details")
	}
	if !strings.Contains(msg.Subject, "URGENT") {
		t.Errorf("manager alert subject must be marked urgent, got %q", msg.Subject)
	}
}

func TestRender_EscapesHostileInput(t *testing.T) {
	data := sampleData()
	data.ClientName = `<script>alert("x")</script>`
	msg := Render(domain.KindClient14Days, data)
	if strings.Contains(msg.HTML, "<script>") {
		t.Error("client-supplied values must be HTML-escaped")
	}
}
