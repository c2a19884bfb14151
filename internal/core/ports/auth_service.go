package ports

import (
	"context"

	"github.com/billtrack/invoice-system/internal/core/domain"
)

// RegisterInput carries client self-registration data. Name may be supplied
// instead of Username/FirstName/LastName; the service splits it.
type RegisterInput struct {
	Username    string
	Name        string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// AuthService handles registration and login. Registration always creates
// client accounts; sales and admin accounts are provisioned through the
// AccountService.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
