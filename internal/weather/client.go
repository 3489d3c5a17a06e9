// Package weather is a thin client for the OpenWeather geocoding and One
// Call APIs.  It performs exactly one outbound request per call and keeps no
// cache; callers decide how to surface failures.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SuggestionLimit is the maximum number of geocoding candidates requested.
const SuggestionLimit = 5

// ErrNotFound is returned when the provider has no usable data for a query.
var ErrNotFound = errors.New("weather data not found")

// UpstreamError describes a non-2xx provider response.  It unwraps to
// ErrNotFound so callers can treat every provider failure alike.
type UpstreamError struct {
	Path   string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openweather %s returned %d: %s", e.Path, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error { return ErrNotFound }

// Suggestion is one geocoding candidate.
type Suggestion struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

// Current is the "current" conditions block of a One Call response.
type Current struct {
	Temp        float64
	Description string
	Icon        string
}

// Client calls the provider over HTTP.
type Client struct {
	geoURL     string
	dataURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a Client.  geoURL and dataURL are scheme+host bases such
// as https://api.openweathermap.org; timeout bounds each outbound call.
func NewClient(geoURL, dataURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		geoURL:     strings.TrimRight(geoURL, "/"),
		dataURL:    strings.TrimRight(dataURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Suggest returns up to SuggestionLimit cities matching query.
func (c *Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(SuggestionLimit))
	q.Set("appid", c.apiKey)

	var out []Suggestion
	if err := c.getJSON(ctx, c.geoURL, "/geo/1.0/direct", q, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Suggestion{}
	}
	if len(out) > SuggestionLimit {
		out = out[:SuggestionLimit]
	}
	return out, nil
}

// Current fetches current conditions (metric units) for a coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Current, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("exclude", "minutely,hourly,daily,alerts")
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	var raw struct {
		Current *struct {
			Temp    float64 `json:"temp"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, c.dataURL, "/data/3.0/onecall", q, &raw); err != nil {
		return Current{}, err
	}
	if raw.Current == nil || len(raw.Current.Weather) == 0 {
		return Current{}, ErrNotFound
	}
	return Current{
		Temp:        raw.Current.Temp,
		Description: raw.Current.Weather[0].Description,
		Icon:        raw.Current.Weather[0].Icon,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, base, path string, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error quotes the full URL, appid included; keep only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("openweather %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &UpstreamError{Path: path, Status: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("openweather %s: decode: %w", path, err)
	}
	return nil
}
