package ports

import (
	"context"
	"time"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// InvoiceScope restricts queries to the invoices an actor is allowed to
// see. An empty scope means no restriction (admin). A scoped query that
// matches nothing behaves exactly like a query for a non-existent invoice,
// so callers cannot distinguish "not yours" from "not there".
type InvoiceScope struct {
	ClientID      string // non-empty: only invoices owned by this client
	SalesPersonID string // non-empty: only invoices assigned to this sales rep
}

// DashboardStats is the admin read-side projection over invoices and users.
type DashboardStats struct {
	TotalRevenue    float64 `json:"total_revenue"`
	TotalInvoices   int64   `json:"total_invoices"`
	PaidInvoices    int64   `json:"paid_invoices"`
	PendingInvoices int64   `json:"pending_invoices"`
	OverdueInvoices int64   `json:"overdue_invoices"`
	Clients         int64   `json:"clients"`
	Sales           int64   `json:"sales"`
}

// MonthlyRevenuePoint is one month of collected revenue.
type MonthlyRevenuePoint struct {
	Month   string  `json:"month"` // YYYY-MM
	Revenue float64 `json:"revenue"`
}

// InvoiceRepository defines persistence operations for invoices. Every
// mutation on status or the embedded logs is a single atomic document
// update, so a status is never observable without its history entry.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	FindByID(ctx context.Context, id string, scope InvoiceScope) (*domain.Invoice, error)
	List(ctx context.Context, scope InvoiceScope) ([]*domain.Invoice, error)
	// SetStatus atomically sets the status field and appends the matching
	// history entry. Returns the updated invoice, or ErrInvoiceNotFound when
	// the id does not exist within scope.
	SetStatus(ctx context.Context, id string, scope InvoiceScope, status domain.InvoiceStatus, changedBy string, at time.Time) (*domain.Invoice, error)
	AppendCommunication(ctx context.Context, id string, comm domain.Communication) error
	AppendNotification(ctx context.Context, id string, n domain.EmailNotification) error
	// ListRemindable returns every invoice whose status is non-terminal
	// (pending or overdue), regardless of due date.
	ListRemindable(ctx context.Context) ([]*domain.Invoice, error)
	// DistinctClientIDs returns the clients behind a sales rep's invoices.
	DistinctClientIDs(ctx context.Context, salesPersonID string) ([]string, error)
	Stats(ctx context.Context) (*DashboardStats, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyRevenuePoint, error)
}
