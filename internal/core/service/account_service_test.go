package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/billtrack/invoice-system/internal/core/domain"
	"github.com/billtrack/invoice-system/internal/core/ports"
)

func TestAccountService_CreateSales_FixesRole(t *testing.T) {
	users := newStubUserRepo()
	svc := NewAccountService(users, discardLogger)

	user, err := svc.CreateSales(context.Background(), ports.CreateAccountInput{
		Username: "rita",
		Email:    "rita@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != domain.RoleSales {
		t.Errorf("expected sales role, got %q", user.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("stored hash must verify against the supplied password")
	}
}

func TestAccountService_CreateSales_DuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	users.add("existing", domain.RoleClient, "rita@example.com", "", "")
	svc := NewAccountService(users, discardLogger)

	_, err := svc.CreateSales(context.Background(), ports.CreateAccountInput{
		Username: "rita",
		Email:    "rita@example.com",
		Password: "s3cret-pass",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_UpdateSales_EmptyPasswordKeepsCredential(t *testing.T) {
	users := newStubUserRepo()
	u := users.add("sales-1", domain.RoleSales, "rita@example.com", "Rita", "Reyes")
	u.PasswordHash = "original-hash"
	svc := NewAccountService(users, discardLogger)

	updated, err := svc.UpdateSales(context.Background(), "sales-1", ports.UpdateAccountInput{FirstName: "Margarita"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FirstName != "Margarita" {
		t.Errorf("expected updated first name, got %q", updated.FirstName)
	}
	if updated.PasswordHash != "original-hash" {
		t.Error("an empty password must leave the credential untouched")
	}
}

func TestAccountService_UpdateSales_EmailTakenByAnother(t *testing.T) {
	users := newStubUserRepo()
	users.add("sales-1", domain.RoleSales, "rita@example.com", "", "")
	users.add("sales-2", domain.RoleSales, "tom@example.com", "", "")
	svc := NewAccountService(users, discardLogger)

	_, err := svc.UpdateSales(context.Background(), "sales-1", ports.UpdateAccountInput{Email: "tom@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_UpdateSales_SameEmailAllowed(t *testing.T) {
	users := newStubUserRepo()
	users.add("sales-1", domain.RoleSales, "rita@example.com", "", "")
	svc := NewAccountService(users, discardLogger)

	if _, err := svc.UpdateSales(context.Background(), "sales-1", ports.UpdateAccountInput{Email: "rita@example.com"}); err != nil {
		t.Fatalf("re-submitting your own email must be allowed, got %v", err)
	}
}

func TestAccountService_DeleteSales_OnlySalesRole(t *testing.T) {
	users := newStubUserRepo()
	users.add("client-1", domain.RoleClient, "alice@example.com", "", "")
	svc := NewAccountService(users, discardLogger)

	err := svc.DeleteSales(context.Background(), "client-1")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("deleting a non-sales account must fail, got %v", err)
	}
	if _, ok := users.byID["client-1"]; !ok {
		t.Error("client account must survive a sales delete attempt")
	}
}
