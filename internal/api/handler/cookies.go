package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gerasmt/productsbackend/internal/api/middleware"
)

// CookieSettings carries the deployment-dependent session cookie attributes.
// Local development keeps SameSite=Lax; a cross-site deployment needs
// SameSite=None, which browsers only accept together with Secure.
type CookieSettings struct {
	Local bool
	TTL   time.Duration
}

func (s CookieSettings) set(c echo.Context, token string) {
	cookie := &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(s.TTL),
	}
	if s.Local {
		cookie.SameSite = http.SameSiteLaxMode
	} else {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true
	}
	c.SetCookie(cookie)
}

func (s CookieSettings) clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}
