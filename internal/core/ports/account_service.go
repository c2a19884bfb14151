package ports

import (
	"context"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// CreateAccountInput carries the fields for admin-created sales accounts.
type CreateAccountInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateAccountInput carries the mutable fields for sales account updates.
// Password is optional; when empty the credential is left unchanged.
type UpdateAccountInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AccountService covers admin-side account management. Roles are fixed at
// creation; there is no role-change operation.
type AccountService interface {
	ListSales(ctx context.Context) ([]*domain.User, error)
	CreateSales(ctx context.Context, input CreateAccountInput) (*domain.User, error)
	UpdateSales(ctx context.Context, id string, input UpdateAccountInput) (*domain.User, error)
	DeleteSales(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]*domain.User, error)
}
