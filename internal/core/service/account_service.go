package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

// AccountService covers admin-side management of sales accounts and the
// client directory.
type AccountService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewAccountService(users ports.UserRepository, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, logger: logger}
}

func (s *AccountService) ListSales(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindByRole(ctx, domain.RoleSales)
}

func (s *AccountService) ListClients(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindByRole(ctx, domain.RoleClient)
}

// CreateSales provisions a sales account. The role is fixed here and never
// changes afterwards.
func (s *AccountService) CreateSales(ctx context.Context, input ports.CreateAccountInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrMissingFields
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleSales,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("sales account created")
	return created, nil
}

// UpdateSales updates a sales account's profile fields. A non-empty
// password is re-hashed; an email already held by another account is
// rejected.
func (s *AccountService) UpdateSales(ctx context.Context, id string, input ports.UpdateAccountInput) (*domain.User, error) {
	if input.Email != "" {
		if existing, err := s.users.FindByEmail(ctx, input.Email); err == nil && existing.ID != id {
			return nil, domain.ErrUserExists
		} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	params := ports.UpdateUserParams{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		params.PasswordHash = string(hash)
	}

	return s.users.Update(ctx, id, params)
}

// DeleteSales removes a sales account. Only accounts carrying the sales
// role are deletable; client and admin accounts are not.
func (s *AccountService) DeleteSales(ctx context.Context, id string) error {
	if err := s.users.DeleteByRole(ctx, id, domain.RoleSales); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("sales account deleted")
	return nil
}
