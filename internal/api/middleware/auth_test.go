package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

type stubAuthService struct {
	user      *domain.User
	verifyErr error
}

func (s *stubAuthService) Register(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.AuthResult, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func (s *stubAuthService) Verify(context.Context, string) (*domain.User, error) {
	if s.verifyErr != nil {
		return nil, s.verifyErr
	}
	return s.user, nil
}

func (s *stubAuthService) Profile(context.Context, string) (*domain.User, error) {
	return s.user, nil
}

func runAuth(t *testing.T, auth ports.AuthService, cookie *http.Cookie) (echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(auth)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return c, handler(c)
}

func TestAuth_InjectsIdentity(t *testing.T) {
	auth := &stubAuthService{user: &domain.User{ID: "u1", Role: domain.RoleAdmin}}

	c, err := runAuth(t, auth, &http.Cookie{Name: CookieName, Value: "valid-token"})
	if err != nil {
		t.Fatalf("expected request to pass, got %v", err)
	}
	if got := c.Get("user_id"); got != "u1" {
		t.Errorf("expected user_id u1, got %v", got)
	}
	if got := c.Get("role"); got != domain.RoleAdmin {
		t.Errorf("expected role admin, got %v", got)
	}
}

func TestAuth_MissingCookie(t *testing.T) {
	_, err := runAuth(t, &stubAuthService{}, nil)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	auth := &stubAuthService{verifyErr: domain.ErrUnauthorized}

	_, err := runAuth(t, auth, &http.Cookie{Name: CookieName, Value: "expired"})

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_UnknownUser(t *testing.T) {
	auth := &stubAuthService{verifyErr: domain.ErrUserNotFound}

	_, err := runAuth(t, auth, &http.Cookie{Name: CookieName, Value: "orphaned"})

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}
