package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// CookieName is the session cookie the frontend sends with every request.
const CookieName = "token"

// Auth resolves the session cookie, verifies the token against the auth
// service and injects the caller's identity into the request context as
// "user_id" and "role".
func Auth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token, authorization denied")
			}

			user, err := auth.Verify(c.Request().Context(), cookie.Value)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrUnauthorized):
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				case errors.Is(err, domain.ErrUserNotFound):
					return echo.NewHTTPError(http.StatusNotFound, "user not found")
				default:
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to validate token")
				}
			}

			c.Set("user_id", user.ID)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}
