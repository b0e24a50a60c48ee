package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// ctxCaller extracts the identity injected by the Auth middleware and
// fast-fails before any service call: both values must be present, their
// absence means the route was mounted without the middleware.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Caller{ID: id, Role: role}, nil
}
