package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/city-weather/internal/middleware"
	"github.com/iliyamo/city-weather/internal/model"
	"github.com/iliyamo/city-weather/internal/session"
	"github.com/iliyamo/city-weather/internal/view"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// CurrentUser returns the signed-in user loaded by middleware.LoadUser.
func CurrentUser(c echo.Context) (model.User, bool) { return session.UserFrom(c) }

func dbContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// render fills the user and pending flashes into p and renders the page.
// Flashes already set on p (messages for this very response) come last.
func render(c echo.Context, fl *session.Flashes, name string, p view.Page) error {
	if u, ok := CurrentUser(c); ok {
		p.User = &u
	}
	p.Flashes = append(fl.Pop(c), p.Flashes...)
	p.CSRFToken = middleware.CSRFToken(c)
	return c.Render(http.StatusOK, name, p)
}
