package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billtrack/invoice-system/internal/core/ports"
)

// AccountHandler covers admin-side account management plus the read-only
// sales directory exposed to clients.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type createAccountRequest struct {
	Username  string `json:"username"  validate:"required"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type updateAccountRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"    validate:"omitempty,email"`
	Password  string `json:"password" validate:"omitempty,min=6"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// ListSales returns every sales account.
func (h *AccountHandler) ListSales(c echo.Context) error {
	users, err := h.accounts.ListSales(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// CreateSales provisions a new sales account.
func (h *AccountHandler) CreateSales(c echo.Context) error {
	var req createAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.CreateSales(c.Request().Context(), ports.CreateAccountInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateSales edits an existing sales account. Empty fields are left as-is.
func (h *AccountHandler) UpdateSales(c echo.Context) error {
	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.accounts.UpdateSales(c.Request().Context(), c.Param("id"), ports.UpdateAccountInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteSales removes a sales account.
func (h *AccountHandler) DeleteSales(c echo.Context) error {
	if err := h.accounts.DeleteSales(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "sales account deleted"})
}

// ListClients returns every client account.
func (h *AccountHandler) ListClients(c echo.Context) error {
	users, err := h.accounts.ListClients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// SalesDirectory is the client-facing listing of sales reps, used when
// picking who a new invoice should be assigned to.
func (h *AccountHandler) SalesDirectory(c echo.Context) error {
	return h.ListSales(c)
}
