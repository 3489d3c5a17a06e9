package handler

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/city-weather/internal/repository"
	"github.com/iliyamo/city-weather/internal/session"
	"github.com/iliyamo/city-weather/internal/view"
)

// PageHandler serves the HTML pages that are not forms.
type PageHandler struct {
	Favorites *repository.FavoriteRepo
	Flashes   *session.Flashes
	Logger    *slog.Logger
}

func NewPageHandler(f *repository.FavoriteRepo, fl *session.Flashes, logger *slog.Logger) *PageHandler {
	return &PageHandler{Favorites: f, Flashes: fl, Logger: logger}
}

// Home renders the landing page.
func (h *PageHandler) Home(c echo.Context) error {
	return render(c, h.Flashes, "home", view.Page{})
}

// Dashboard lists the current user's favorites in insertion order.
func (h *PageHandler) Dashboard(c echo.Context) error {
	u, ok := CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	favs, err := h.Favorites.ListByUser(ctx, u.ID)
	if err != nil {
		h.Logger.ErrorContext(ctx, "list favorites failed", "user_id", u.ID, "error", err)
		return echo.ErrInternalServerError
	}
	return render(c, h.Flashes, "dashboard", view.Page{Title: "Dashboard", Favorites: favs})
}

// Search renders the search shell; the page talks to the JSON routes.
func (h *PageHandler) Search(c echo.Context) error {
	return render(c, h.Flashes, "search", view.Page{Title: "Search"})
}
