package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/billtrack/invoice-system/internal/api/metrics"
	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// InvoiceService enforces who may read or mutate which invoices and keeps
// the audit trail consistent.
type InvoiceService struct {
	invoices ports.InvoiceRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewInvoiceService(invoices ports.InvoiceRepository, users ports.UserRepository, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{invoices: invoices, users: users, logger: logger}
}

// readScope maps an actor to the invoice visibility filter applied on every
// read path.
func readScope(actor ports.Actor) ports.InvoiceScope {
	switch actor.Role {
	case domain.RoleClient:
		return ports.InvoiceScope{ClientID: actor.ID}
	case domain.RoleSales:
		return ports.InvoiceScope{SalesPersonID: actor.ID}
	default: // admin
		return ports.InvoiceScope{}
	}
}

// Create validates references and creates a pending invoice with its first
// status-history entry. Client actors always create for themselves.
func (s *InvoiceService) Create(ctx context.Context, input ports.CreateInvoiceInput) (*domain.Invoice, error) {
	clientID := input.ClientID
	if input.Actor.Role == domain.RoleClient {
		clientID = input.Actor.ID
	}
	if clientID == "" || input.SalesPersonID == "" || input.Amount <= 0 || input.DueDate.IsZero() {
		return nil, domain.ErrMissingFields
	}

	client, err := s.users.FindByID(ctx, clientID)
	if err != nil || client.Role != domain.RoleClient {
		return nil, domain.ErrUserNotFound
	}
	salesPerson, err := s.users.FindByID(ctx, input.SalesPersonID)
	if err != nil || salesPerson.Role != domain.RoleSales {
		return nil, domain.ErrUserNotFound
	}

	clientName := input.ClientName
	if clientName == "" {
		clientName = client.FullName()
	}

	items := make([]domain.LineItem, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, domain.LineItem{Description: it.Description, Quantity: it.Quantity, Price: it.Price})
	}

	now := time.Now().UTC()
	inv := &domain.Invoice{
		InvoiceNumber: input.InvoiceNumber,
		ClientID:      clientID,
		SalesPersonID: input.SalesPersonID,
		ClientName:    clientName,
		Amount:        input.Amount,
		DueDate:       input.DueDate,
		Status:        domain.StatusPending,
		Items:         items,
		FilePath:      input.FilePath,
		StatusHistory: []domain.StatusHistoryEntry{{
			Status:    domain.StatusPending,
			ChangedBy: input.Actor.ID,
			ChangedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.invoices.Create(ctx, inv)
	if err != nil {
		s.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to create invoice")
		return nil, err
	}

	metrics.InvoicesCreatedTotal.WithLabelValues(input.Actor.Role).Inc()
	s.logger.Info().
		Str("invoice_id", created.ID).
		Str("client_id", clientID).
		Str("sales_person_id", input.SalesPersonID).
		Msg("invoice created")

	return created, nil
}

// SetStatus applies a status transition and appends the matching history
// entry in one atomic update. Sales actors only reach invoices assigned to
// them; anything outside scope reads as not found. Any status may follow
// any other status.
func (s *InvoiceService) SetStatus(ctx context.Context, input ports.SetStatusInput) (*domain.Invoice, error) {
	status := domain.InvoiceStatus(input.Status)
	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	var scope ports.InvoiceScope
	switch input.Actor.Role {
	case domain.RoleAdmin:
	case domain.RoleSales:
		scope = ports.InvoiceScope{SalesPersonID: input.Actor.ID}
	default:
		return nil, domain.ErrForbidden
	}

	updated, err := s.invoices.SetStatus(ctx, input.InvoiceID, scope, status, input.Actor.ID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
	s.logger.Info().
		Str("invoice_id", input.InvoiceID).
		Str("status", string(status)).
		Str("changed_by", input.Actor.ID).
		Msg("invoice status updated")

	return updated, nil
}

// AppendCommunication appends one entry to the invoice's communication
// trail. It never alters status.
func (s *InvoiceService) AppendCommunication(ctx context.Context, input ports.AppendCommunicationInput) (*domain.Communication, error) {
	if input.Message == "" {
		return nil, domain.ErrMessageRequired
	}

	typ := domain.CommunicationType(input.Type)
	if input.Type == "" {
		typ = domain.CommOther
	} else if !typ.IsValid() {
		return nil, domain.ErrInvalidCommType
	}

	comm := domain.Communication{
		SenderID:  input.Actor.ID,
		Message:   input.Message,
		Type:      typ,
		Timestamp: time.Now().UTC(),
	}

	if err := s.invoices.AppendCommunication(ctx, input.InvoiceID, comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// ListForRole returns the invoices visible to the actor.
func (s *InvoiceService) ListForRole(ctx context.Context, actor ports.Actor) ([]*domain.Invoice, error) {
	return s.invoices.List(ctx, readScope(actor))
}

// Get returns a single invoice within the actor's visibility scope.
func (s *InvoiceService) Get(ctx context.Context, actor ports.Actor, invoiceID string) (*domain.Invoice, error) {
	return s.invoices.FindByID(ctx, invoiceID, readScope(actor))
}

// Communications returns the communication trail of a visible invoice, in
// insertion order.
func (s *InvoiceService) Communications(ctx context.Context, actor ports.Actor, invoiceID string) ([]domain.Communication, error) {
	inv, err := s.invoices.FindByID(ctx, invoiceID, readScope(actor))
	if err != nil {
		return nil, err
	}
	return inv.Communications, nil
}

// MyClients returns the distinct clients behind the sales rep's invoices.
func (s *InvoiceService) MyClients(ctx context.Context, actor ports.Actor) ([]*domain.User, error) {
	if actor.Role != domain.RoleSales {
		return nil, domain.ErrForbidden
	}
	ids, err := s.invoices.DistinctClientIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return s.users.FindByIDs(ctx, ids)
}

// Stats assembles the admin dashboard projection: invoice aggregates from
// the invoice collection plus account counts by role.
func (s *InvoiceService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	stats, err := s.invoices.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Clients, err = s.users.CountByRole(ctx, domain.RoleClient); err != nil {
		return nil, err
	}
	if stats.Sales, err = s.users.CountByRole(ctx, domain.RoleSales); err != nil {
		return nil, err
	}
	return stats, nil
}

// MonthlyRevenue returns the paid revenue series grouped by month.
func (s *InvoiceService) MonthlyRevenue(ctx context.Context) ([]ports.MonthlyRevenuePoint, error) {
	return s.invoices.MonthlyRevenue(ctx)
}
