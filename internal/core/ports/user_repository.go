package ports

import (
	"context"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// UpdateUserParams carries the mutable account fields for admin updates.
// Zero-valued fields are left untouched; Password, when set, is already
// hashed by the service layer.
type UpdateUserParams struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByRole(ctx context.Context, role string) ([]*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Update(ctx context.Context, id string, params UpdateUserParams) (*domain.User, error)
	// DeleteByRole removes the account only when it carries the given role.
	DeleteByRole(ctx context.Context, id, role string) error
	CountByRole(ctx context.Context, role string) (int64, error)
}
