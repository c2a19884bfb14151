package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billtrack/invoice-system/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoice operations. Every
// endpoint resolves the actor from the verified token claims, so a caller
// can never widen their own visibility through request data.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// List returns the invoices visible to the authenticated actor, newest first.
func (h *InvoiceHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	invoices, err := h.service.ListForRole(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoices)
}

// Get returns a single invoice by id, scoped to the actor.
func (h *InvoiceHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	invoice, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// Create registers a new invoice. Clients always create invoices for
// themselves; admins may set client_id to invoice on a client's behalf.
func (h *InvoiceHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return err
	}

	items := make([]ports.LineItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.LineItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	invoice, err := h.service.Create(c.Request().Context(), ports.CreateInvoiceInput{
		Actor:         actor,
		ClientID:      req.ClientID,
		SalesPersonID: req.SalesPersonID,
		Amount:        req.Amount,
		DueDate:       dueDate,
		Items:         items,
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		FilePath:      req.FilePath,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// SetStatus transitions an invoice to a new status and returns the updated
// document, history included.
func (h *InvoiceHandler) SetStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	invoice, err := h.service.SetStatus(c.Request().Context(), ports.SetStatusInput{
		Actor:     actor,
		InvoiceID: c.Param("id"),
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, invoice)
}

// AddCommunication appends a message to an invoice's communication log.
func (h *InvoiceHandler) AddCommunication(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req communicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comm, err := h.service.AppendCommunication(c.Request().Context(), ports.AppendCommunicationInput{
		Actor:     actor,
		InvoiceID: c.Param("id"),
		Message:   req.Message,
		Type:      req.Type,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comm)
}

// ListCommunications returns the communication log of a visible invoice.
func (h *InvoiceHandler) ListCommunications(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	comms, err := h.service.Communications(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comms)
}

// MyClients returns the distinct clients that appear on the sales rep's
// invoices.
func (h *InvoiceHandler) MyClients(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	clients, err := h.service.MyClients(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Stats returns the admin dashboard counters.
func (h *InvoiceHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// MonthlyRevenue returns paid revenue grouped by calendar month.
func (h *InvoiceHandler) MonthlyRevenue(c echo.Context) error {
	points, err := h.service.MonthlyRevenue(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, points)
}
