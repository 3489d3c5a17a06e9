package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	q "github.com/iliyamo/city-weather/internal/queue"
	"github.com/iliyamo/city-weather/internal/repository"
	"github.com/iliyamo/city-weather/internal/service"
)

// MaxCityNameLen matches favorites.city_name VARCHAR(150).
const MaxCityNameLen = 150

// coordinate decodes a JSON number or numeric string.  Anything else leaves
// it unset so the handler can answer with its own message.
type coordinate struct {
	value float64
	set   bool
}

func (c *coordinate) UnmarshalJSON(b []byte) error {
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		u, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		s = u
	}
	if f, err := parseCoordinate(s); err == nil {
		c.value, c.set = f, true
	}
	return nil
}

type favoriteReq struct {
	CityName string     `json:"city_name"`
	Lat      coordinate `json:"lat"`
	Lon      coordinate `json:"lon"`
}

type statusResp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// FavoriteHandler adds and removes the current user's favorite cities.
type FavoriteHandler struct {
	Favorites *repository.FavoriteRepo
	Events    service.Publisher
	Logger    *slog.Logger
}

func NewFavoriteHandler(f *repository.FavoriteRepo, events service.Publisher, logger *slog.Logger) *FavoriteHandler {
	return &FavoriteHandler{Favorites: f, Events: events, Logger: logger}
}

// Add stores {city_name, lat, lon}.  A repeat of the same city is reported
// as info, not as an error.
func (h *FavoriteHandler) Add(c echo.Context) error {
	u, ok := CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	var req favoriteReq
	_ = c.Bind(&req) // a malformed body fails the checks below
	city := strings.TrimSpace(req.CityName)
	if city == "" || !req.Lat.set || !req.Lon.set {
		return c.JSON(http.StatusBadRequest, statusResp{Status: "error",
			Message: "City name, latitude, and longitude are required."})
	}

	if utf8.RuneCountInString(city) > MaxCityNameLen {
		return c.JSON(http.StatusBadRequest, statusResp{Status: "error",
			Message: "City name must be at most 150 characters long."})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Favorites.Add(ctx, u.ID, city, req.Lat.value, req.Lon.value)
	if errors.Is(err, repository.ErrFavoriteExists) {
		return c.JSON(http.StatusOK, statusResp{Status: "info", Message: city + " is already in your favorites."})
	}
	if err != nil {
		h.Logger.ErrorContext(ctx, "add favorite failed", "user_id", u.ID, "city", city, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add favorite failed"})
	}

	ev := q.NewActivityEvent(q.EventFavoriteAdded, u.ID)
	ev.CityName, ev.Lat, ev.Lon = city, &req.Lat.value, &req.Lon.value
	_ = h.Events.Publish(ctx, ev)
	return c.JSON(http.StatusOK, statusResp{Status: "success"})
}

// Delete removes {city_name} from the current user's favorites.
func (h *FavoriteHandler) Delete(c echo.Context) error {
	u, ok := CurrentUser(c)
	if !ok {
		return echo.ErrUnauthorized
	}
	var req favoriteReq
	_ = c.Bind(&req)
	city := strings.TrimSpace(req.CityName)
	if city == "" {
		return c.JSON(http.StatusBadRequest, statusResp{Status: "error", Message: "City name is required."})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	err := h.Favorites.Delete(ctx, u.ID, city)
	if errors.Is(err, repository.ErrFavoriteNotFound) {
		return c.JSON(http.StatusNotFound, statusResp{Status: "error", Message: "Favorite not found."})
	}
	if err != nil {
		h.Logger.ErrorContext(ctx, "delete favorite failed", "user_id", u.ID, "city", city, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete favorite failed"})
	}

	ev := q.NewActivityEvent(q.EventFavoriteRemoved, u.ID)
	ev.CityName = city
	_ = h.Events.Publish(ctx, ev)
	return c.JSON(http.StatusOK, statusResp{Status: "success"})
}
