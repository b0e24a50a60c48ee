package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/core/domain"
)

func runRequireRole(role interface{}, allowed ...string) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	handler := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRequireRole(t *testing.T) {
	if err := runRequireRole(domain.RoleAdmin, domain.RoleAdmin); err != nil {
		t.Errorf("admin must pass an admin gate, got %v", err)
	}

	err := runRequireRole(domain.RoleUser, domain.RoleAdmin)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 for plain user, got %v", err)
	}
}

func TestRequireRole_MissingRole(t *testing.T) {
	err := runRequireRole(nil, domain.RoleAdmin)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Errorf("expected 403 when no role is set, got %v", err)
	}
}

func TestRequireRole_MultipleAllowed(t *testing.T) {
	if err := runRequireRole(domain.RoleUser, domain.RoleAdmin, domain.RoleUser); err != nil {
		t.Errorf("user must pass a gate that lists user, got %v", err)
	}
}
