package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/session"
)

// UserLoader resolves a session's user id to a user record.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// LoadUser resolves the session cookie on every request.  When it names an
// existing, active user the user is stored on the context for handlers and
// the gates below; otherwise the request continues anonymously.
func LoadUser(sm *session.Manager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid, ok := sm.Current(c); ok {
				u, err := users.GetByID(c.Request().Context(), uid)
				if err == nil && u.IsActive {
					session.SetUser(c, u)
				}
			}
			return next(c)
		}
	}
}

// RequireLogin redirects anonymous requests to the login page.  It must run
// after LoadUser.
func RequireLogin(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := session.UserFrom(c); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// RedirectIfAuthenticated sends signed-in users away from the signup and
// login pages.
func RedirectIfAuthenticated(to string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := session.UserFrom(c); ok {
				return c.Redirect(http.StatusFound, to)
			}
			return next(c)
		}
	}
}
