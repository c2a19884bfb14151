package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/billtrack/invoice-system/internal/core/ports"
)

// ctxActor extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: both id and role must be present, a
// token without them is structurally valid but operationally unusable.
func ctxActor(c echo.Context) (ports.Actor, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Actor{ID: id, Role: role}, nil
}
