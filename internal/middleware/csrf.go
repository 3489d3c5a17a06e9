package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// CSRF token plumbing shared with the templates and scripts.js.
const (
	CSRFContextKey = "csrf"
	CSRFCookieName = "csrf"
	CSRFFormField  = "csrf_token"
	CSRFHeader     = "X-CSRF-Token"
)

// CSRF guards state-changing requests with a double-submit token.  Forms
// send it as csrf_token, scripts as the X-CSRF-Token header.  A missing or
// wrong token is answered with 403.
func CSRF(secure bool) echo.MiddlewareFunc {
	return echomw.CSRFWithConfig(echomw.CSRFConfig{
		TokenLookup:    "form:" + CSRFFormField + ",header:" + CSRFHeader,
		ContextKey:     CSRFContextKey,
		CookieName:     CSRFCookieName,
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   secure,
		CookieSameSite: http.SameSiteLaxMode,
		ErrorHandler: func(error, echo.Context) error {
			return echo.NewHTTPError(http.StatusForbidden, "invalid csrf token")
		},
	})
}

// CSRFToken returns the token the CSRF middleware stored on the context.
func CSRFToken(c echo.Context) string {
	tok, _ := c.Get(CSRFContextKey).(string)
	return tok
}
