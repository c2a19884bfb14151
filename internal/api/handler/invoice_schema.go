package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type lineItemRequest struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity"    validate:"required,min=1"`
	Price       float64 `json:"price"       validate:"required,gt=0"`
}

type createInvoiceRequest struct {
	ClientID      string            `json:"client_id"`
	SalesPersonID string            `json:"sales_person_id" validate:"required"`
	Amount        float64           `json:"amount"          validate:"required,gt=0"`
	DueDate       string            `json:"due_date"        validate:"required"`
	Items         []lineItemRequest `json:"items"           validate:"omitempty,dive"`
	InvoiceNumber string            `json:"invoice_number"`
	ClientName    string            `json:"client_name"`
	FilePath      string            `json:"file_path"`
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type communicationRequest struct {
	Message string `json:"message" validate:"required"`
	Type    string `json:"type"`
}

type reminderRunResponse struct {
	Message string `json:"message"`
	Sent    int    `json:"sent"`
}

// parseDueDate accepts either a bare calendar date or a full RFC 3339
// timestamp; either way the stored value is the instant the client sent.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD or RFC 3339")
	}
	return t.UTC(), nil
}
