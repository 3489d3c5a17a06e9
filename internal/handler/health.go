package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"database/sql"
	"net/http" // net/http provides status codes and response helpers
	"time"

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports whether the backing stores answer.
type HealthHandler struct {
	DB    *sql.DB
	Redis *redis.Client // nil when sessions are cookie-only
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{DB: db, Redis: rdb}
}

// Health is used by load balancers and monitoring systems.  It returns a
// plain text "ok" with 200, or 503 naming the store that failed.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.String(http.StatusServiceUnavailable, "database unavailable")
	}
	if h.Redis != nil {
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			return c.String(http.StatusServiceUnavailable, "redis unavailable")
		}
	}
	return c.String(http.StatusOK, "ok")
}
