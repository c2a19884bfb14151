package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// stubInvoiceService records the last Create call; the embedded interface
// panics on anything a test does not expect to be reached.
type stubInvoiceService struct {
	ports.InvoiceService
	lastCreate ports.CreateInvoiceInput
	created    *domain.Invoice
}

func (s *stubInvoiceService) Create(_ context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	s.lastCreate = input
	return s.created, nil
}

func createContext(t *testing.T, body string, claims bool) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims {
		c.Set("user_id", "client-1")
		c.Set("role", domain.RoleClient)
	}
	return c, rec
}

func TestInvoiceHandler_Create_PassesActorFromClaims(t *testing.T) {
	svc := &stubInvoiceService{created: &domain.Invoice{ID: "inv-1"}}
	h := NewInvoiceHandler(svc)

	body := `{"sales_person_id":"sales-1","amount":99.5,"due_date":"2026-10-15"}`
	c, rec := createContext(t, body, true)

	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if svc.lastCreate.Actor.ID != "client-1" || svc.lastCreate.Actor.Role != domain.RoleClient {
		t.Errorf("actor must come from token claims, got %+v", svc.lastCreate.Actor)
	}
	want := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if !svc.lastCreate.DueDate.Equal(want) {
		t.Errorf("expected due date %v, got %v", want, svc.lastCreate.DueDate)
	}
}

func TestInvoiceHandler_Create_RejectsMissingAmount(t *testing.T) {
	svc := &stubInvoiceService{}
	h := NewInvoiceHandler(svc)

	c, _ := createContext(t, `{"sales_person_id":"sales-1","due_date":"2026-10-15"}`, true)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestInvoiceHandler_Create_RejectsBadDueDate(t *testing.T) {
	svc := &stubInvoiceService{}
	h := NewInvoiceHandler(svc)

	c, _ := createContext(t, `{"sales_person_id":"sales-1","amount":10,"due_date":"next tuesday"}`, true)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestInvoiceHandler_Create_RejectsMissingClaims(t *testing.T) {
	svc := &stubInvoiceService{}
	h := NewInvoiceHandler(svc)

	c, _ := createContext(t, `{"sales_person_id":"sales-1","amount":10,"due_date":"2026-10-15"}`, false)

	err := h.Create(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestParseDueDate_AcceptsRFC3339(t *testing.T) {
	got, err := parseDueDate("2026-10-15T08:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
