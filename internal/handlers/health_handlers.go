package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"dely/internal/repositories"
)

// Pinger is the slice of the cache service the detailed probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	db    repositories.DB
	cache Pinger
	start time.Time
}

func NewHealthHandlers(db repositories.DB, cache Pinger) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache, start: time.Now()}
}

// Health is the liveness probe; it never touches downstream systems.
func (h *HealthHandlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready reports whether the database answers.
func (h *HealthHandlers) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"error":  err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "ready"})
}

// Detailed reports a per-dependency breakdown. A database failure
// returns 503; a cache failure only marks the body degraded.
func (h *HealthHandlers) Detailed(c echo.Context) error {
	ctx := c.Request().Context()
	status := http.StatusOK
	overall := "ok"
	components := map[string]any{}

	started := time.Now()
	var one int
	if err := h.db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		overall = "unavailable"
		status = http.StatusServiceUnavailable
		components["database"] = map[string]any{"status": "down", "error": err.Error()}
	} else {
		components["database"] = map[string]any{
			"status":     "up",
			"latency_ms": time.Since(started).Milliseconds(),
		}
	}

	if h.cache != nil {
		started = time.Now()
		if err := h.cache.Ping(ctx); err != nil {
			if overall == "ok" {
				overall = "degraded"
			}
			components["cache"] = map[string]any{"status": "down", "error": err.Error()}
		} else {
			components["cache"] = map[string]any{
				"status":     "up",
				"latency_ms": time.Since(started).Milliseconds(),
			}
		}
	}

	return c.JSON(status, map[string]any{
		"status":     overall,
		"time":       time.Now().UTC().Format(time.RFC3339),
		"uptime":     time.Since(h.start).Round(time.Second).String(),
		"components": components,
	})
}
