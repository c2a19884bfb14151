package ports

import (
	"context"
	"time"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// Actor is the authenticated account performing an operation.
type Actor struct {
	ID   string
	Role string
}

// LineItemInput is one description/quantity/price triple.
type LineItemInput struct {
	Description string
	Quantity    int
	Price       float64
}

// CreateInvoiceInput carries all data needed to create an invoice. When the
// actor is a client the invoice is always created for the actor itself and
// ClientID is ignored.
type CreateInvoiceInput struct {
	Actor         Actor
	ClientID      string
	SalesPersonID string
	Amount        float64
	DueDate       time.Time
	Items         []LineItemInput
	InvoiceNumber string
	ClientName    string // optional override of the denormalized display name
	FilePath      string // optional attachment reference
}

// SetStatusInput carries a status transition request.
type SetStatusInput struct {
	Actor     Actor
	InvoiceID string
	Status    string
}

// AppendCommunicationInput carries a new communication entry.
type AppendCommunicationInput struct {
	Actor     Actor
	InvoiceID string
	Message   string
	Type      string // defaults to "other" when empty
}

// InvoiceService defines the invoice lifecycle use cases. Visibility is
// role-scoped on every read path: clients see their own invoices, sales
// reps see invoices assigned to them, admins see everything.
type InvoiceService interface {
	Create(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*domain.Invoice, error)
	AppendCommunication(ctx context.Context, input AppendCommunicationInput) (*domain.Communication, error)
	ListForRole(ctx context.Context, actor Actor) ([]*domain.Invoice, error)
	Get(ctx context.Context, actor Actor, invoiceID string) (*domain.Invoice, error)
	Communications(ctx context.Context, actor Actor, invoiceID string) ([]domain.Communication, error)
	// MyClients returns the distinct clients behind a sales rep's invoices.
	MyClients(ctx context.Context, actor Actor) ([]*domain.User, error)
	Stats(ctx context.Context) (*DashboardStats, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyRevenuePoint, error)
}
