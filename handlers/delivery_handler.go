package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/response"
)

type deliveryAdmin interface {
	GetDeliveries(ctx context.Context, status *domain.DeliveryStatus, page, pageSize int) ([]domain.Delivery, int64, error)
	GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
	GetStats(ctx context.Context) (domain.DeliveryStats, error)
	GetCachedDeliveries(ctx context.Context) (map[int64]*domain.SentDeliveryCache, error)
	ReplayFailedDelivery(ctx context.Context, id int64) error
	ReplayAllFailedDeliveries(ctx context.Context) (int64, error)
}

type DeliveryHandler struct {
	service deliveryAdmin
}

func NewDeliveryHandler(service deliveryAdmin) *DeliveryHandler {
	return &DeliveryHandler{service: service}
}

// GetDeliveries godoc
// @Summary List deliveries
// @Description Retrieves a paginated list of the delivery log with optional status filter
// @Tags deliveries
// @Accept json
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 100)"
// @Param status query string false "Filter by status (scheduled, submitted, sent, failed)"
// @Success 200 {object} response.PaginatedResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/deliveries [get]
func (h *DeliveryHandler) GetDeliveries(c echo.Context) error {
	page, pageSize, err := parsePaginationParams(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	var status *domain.DeliveryStatus
	if statusStr := strings.TrimSpace(c.QueryParam("status")); statusStr != "" {
		parsed := domain.DeliveryStatus(strings.ToLower(statusStr))
		if !parsed.Valid() {
			return response.BadRequest(c, fmt.Errorf("unknown status %q", statusStr))
		}
		status = &parsed
	}

	deliveries, totalCount, err := h.service.GetDeliveries(c.Request().Context(), status, page, pageSize)
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Paginated(c, deliveries, page, pageSize, totalCount)
}

// GetDelivery godoc
// @Summary Get a delivery
// @Description Returns one row of the delivery log
// @Tags deliveries
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c echo.Context) error {
	id, err := parseDeliveryID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	delivery, err := h.service.GetDelivery(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrDeliveryNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, delivery)
}

// GetStats godoc
// @Summary Get delivery statistics
// @Description Returns count of deliveries by status
// @Tags deliveries
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/deliveries/stats [get]
func (h *DeliveryHandler) GetStats(c echo.Context) error {
	stats, err := h.service.GetStats(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"scheduled": stats.Scheduled,
		"submitted": stats.Submitted,
		"sent":      stats.Sent,
		"failed":    stats.Failed,
		"total":     stats.Total(),
	})
}

// GetCachedDeliveries godoc
// @Summary Get cached deliveries
// @Description Returns the sent deliveries cached in Valkey
// @Tags deliveries
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/deliveries/cached [get]
func (h *DeliveryHandler) GetCachedDeliveries(c echo.Context) error {
	cached, err := h.service.GetCachedDeliveries(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, cached)
}

// ReplayAllFailedDeliveries godoc
// @Summary Replay all failed deliveries
// @Description Moves every failed delivery back to the outbox so the dispatcher sends it on its next run
// @Tags deliveries
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/deliveries/replay [post]
func (h *DeliveryHandler) ReplayAllFailedDeliveries(c echo.Context) error {
	count, err := h.service.ReplayAllFailedDeliveries(c.Request().Context())
	if err != nil {
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, map[string]any{
		"replayed": count,
	})
}

// ReplayFailedDelivery godoc
// @Summary Replay a single failed delivery
// @Description Moves one failed delivery back to the outbox
// @Tags deliveries
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param id path int true "Delivery ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/deliveries/{id}/replay [post]
func (h *DeliveryHandler) ReplayFailedDelivery(c echo.Context) error {
	id, err := parseDeliveryID(c)
	if err != nil {
		return response.BadRequest(c, err)
	}

	if err := h.service.ReplayFailedDelivery(c.Request().Context(), id); err != nil {
		return response.NotFound(c, err.Error())
	}

	return response.Ok(c, map[string]any{
		"replayed": 1,
	})
}

func parseDeliveryID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid delivery id")
	}
	return id, nil
}

func parsePaginationParams(c echo.Context) (int, int, error) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)

	page := defaultPage
	if pageStr := c.QueryParam("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil || p <= 0 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
		page = p
	}

	pageSize := defaultPageSize
	if pageSizeStr := c.QueryParam("pageSize"); pageSizeStr != "" {
		ps, err := strconv.Atoi(pageSizeStr)
		if err != nil || ps <= 0 || ps > maxPageSize {
			return 0, 0, fmt.Errorf("pageSize must be between 1 and %d", maxPageSize)
		}
		pageSize = ps
	}

	return page, pageSize, nil
}
