package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type cachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health checks.
type HealthHandler struct {
	db           dbPinger
	cache        cachePinger
	checkTimeout time.Duration
}

// NewHealthHandler accepts a nil cache when Valkey is disabled.
func NewHealthHandler(db dbPinger, cache cachePinger) *HealthHandler {
	return &HealthHandler{
		db:           db,
		cache:        cache,
		checkTimeout: 2 * time.Second,
	}
}

// Health returns overall status and basic component statuses (MySQL and Valkey).
// @Summary Health check
// @Description Returns overall status with MySQL and Valkey connectivity results, checked concurrently
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.checkTimeout)
	defer cancel()

	dbStatus := "down"
	cacheStatus := "disabled"

	// Each check records its own status and never fails the group.
	var g errgroup.Group
	if h.db != nil {
		g.Go(func() error {
			if err := h.db.PingContext(ctx); err == nil {
				dbStatus = "up"
			}
			return nil
		})
	}
	if h.cache != nil {
		g.Go(func() error {
			cacheStatus = "up"
			if err := h.cache.Ping(ctx); err != nil {
				cacheStatus = "down"
			}
			return nil
		})
	}
	_ = g.Wait()

	overallStatus := "ok"
	switch {
	case dbStatus == "down":
		overallStatus = "down"
	case cacheStatus == "down":
		overallStatus = "degraded"
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().Format(time.RFC3339),
		"components": map[string]any{
			"database": map[string]any{
				"status": dbStatus,
			},
			"cache": map[string]any{
				"status": cacheStatus,
			},
		},
	})
}
