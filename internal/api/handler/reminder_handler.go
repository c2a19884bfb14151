package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/billtrack/invoice-system/internal/core/ports"
)

// ReminderHandler exposes the manual reminder trigger used by external
// cron services. It sits outside the JWT surface and is guarded by a
// shared bearer secret instead.
type ReminderHandler struct {
	reminders ports.ReminderService
	secret    string
}

func NewReminderHandler(reminders ports.ReminderService, secret string) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, secret: secret}
}

// Run kicks off a reminder sweep and reports how many sends succeeded.
// A sweep already in flight surfaces as 409.
func (h *ReminderHandler) Run(c echo.Context) error {
	if h.secret != "" {
		token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid cron secret")
		}
	}

	sent, err := h.reminders.ProcessInvoiceReminders(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, reminderRunResponse{Message: "reminder run completed", Sent: sent})
}
