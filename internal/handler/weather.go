package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/city-weather/internal/weather"
)

// WeatherClient is the subset of weather.Client the handlers use.
type WeatherClient interface {
	Suggest(ctx context.Context, query string) ([]weather.Suggestion, error)
	Current(ctx context.Context, lat, lon float64) (weather.Current, error)
}

var errBadCoordinate = errors.New("invalid coordinate")

// WeatherHandler proxies the geocoding and current-weather lookups.
type WeatherHandler struct {
	Client WeatherClient
	Logger *slog.Logger
}

func NewWeatherHandler(client WeatherClient, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{Client: client, Logger: logger}
}

type weatherResp struct {
	Name        string  `json:"name"`
	Temp        float64 `json:"temp"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Suggestions returns up to five candidate cities for ?query=.
func (h *WeatherHandler) Suggestions(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return c.JSON(http.StatusOK, []weather.Suggestion{})
	}
	ctx := c.Request().Context()
	out, err := h.Client.Suggest(ctx, query)
	if err != nil {
		h.Logger.WarnContext(ctx, "suggestions upstream failed", "query", query, "error", err)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "City suggestions not found"})
	}
	return c.JSON(http.StatusOK, out)
}

// Weather returns current conditions for ?lat=&lon=.  Coordinates are
// checked before any outbound call.
func (h *WeatherHandler) Weather(c echo.Context) error {
	latRaw := strings.TrimSpace(c.QueryParam("lat"))
	lonRaw := strings.TrimSpace(c.QueryParam("lon"))
	if latRaw == "" || lonRaw == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error: Latitude and longitude are required."})
	}
	lat, err1 := parseCoordinate(latRaw)
	lon, err2 := parseCoordinate(lonRaw)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error: Invalid latitude or longitude."})
	}

	ctx := c.Request().Context()
	cur, err := h.Client.Current(ctx, lat, lon)
	if err != nil {
		h.Logger.WarnContext(ctx, "weather upstream failed", "lat", lat, "lon", lon, "error", err)
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Weather data not found"})
	}
	return c.JSON(http.StatusOK, weatherResp{
		Name:        c.QueryParam("city_name"),
		Temp:        cur.Temp,
		Description: cur.Description,
		Icon:        cur.Icon,
		Lat:         lat,
		Lon:         lon,
	})
}

// parseCoordinate accepts any finite decimal number; range is left to the provider.
func parseCoordinate(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errBadCoordinate
	}
	return f, nil
}
