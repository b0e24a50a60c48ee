package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/api/metrics"
	"github.com/gerasmt/productsbackend/internal/api/middleware"
	"github.com/gerasmt/productsbackend/internal/core/domain"
	"github.com/gerasmt/productsbackend/internal/core/ports"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieSettings
}

func NewAuthHandler(authService ports.AuthService, cookies CookieSettings) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// Register creates a new user account and opens a session.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.cookies.set(c, result.Token)
	return c.JSON(http.StatusOK, toUserResponse(result.User))
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		// Unknown email and bad password are indistinguishable to the client.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid email or password")
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.cookies.set(c, result.Token)
	return c.JSON(http.StatusOK, toUserResponse(result.User))
}

// Logout clears the session cookie and revokes the token.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		// Best effort: the cookie is cleared either way and the token
		// still expires on schedule.
		_ = h.authService.Logout(c.Request().Context(), cookie.Value)
	}

	h.cookies.clear(c)
	return c.NoContent(http.StatusOK)
}

// Profile returns the authenticated caller's account.
func (h *AuthHandler) Profile(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Profile(c.Request().Context(), caller.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Verify validates the session cookie without the auth middleware, so the
// frontend can probe session state on page load.
func (h *AuthHandler) Verify(c echo.Context) error {
	cookie, err := c.Cookie(middleware.CookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "not authorized")
	}

	user, err := h.authService.Verify(c.Request().Context(), cookie.Value)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}
