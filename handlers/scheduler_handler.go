package handlers

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/scheduler"
	"github.com/onurcolak/restaurant-concierge/pkg/response"
	"github.com/onurcolak/restaurant-concierge/pkg/validator"
)

type dispatcherControl interface {
	IsRunning() bool
	StartWithParams(ctx context.Context, interval time.Duration, alertWebhook string, alertThreshold int) error
	Stop() error
	GetStatus() scheduler.DispatcherStatus
}

type DispatcherHandler struct {
	dispatcher dispatcherControl
	ctx        context.Context
	config     *environments.Config
}

type StartDispatcherRequest struct {
	IntervalSeconds *int `json:"intervalSeconds,omitempty" validate:"omitempty,min=5,max=86400"`
}

func NewDispatcherHandler(
	dispatcher dispatcherControl,
	ctx context.Context,
	cfg *environments.Config,
) *DispatcherHandler {
	return &DispatcherHandler{
		dispatcher: dispatcher,
		ctx:        ctx,
		config:     cfg,
	}
}

// StartDispatcher godoc
// @Summary Start the outbox dispatcher
// @Description Starts sending due follow-ups from the outbox with an optional interval
// @Tags dispatcher
// @Accept json
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param request body StartDispatcherRequest false "Dispatcher parameters (optional)"
// @Success 200 {object} response.SuccessResponse
// @Failure 422 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/dispatcher/start [post]
func (h *DispatcherHandler) StartDispatcher(c echo.Context) error {
	if h.dispatcher.IsRunning() {
		return response.OkWithMessage(c, "Dispatcher is already running", h.dispatcher.GetStatus())
	}

	var req StartDispatcherRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	interval := h.config.Delivery.DispatchInterval
	if req.IntervalSeconds != nil {
		interval = time.Duration(*req.IntervalSeconds) * time.Second
	}

	if err := h.dispatcher.StartWithParams(
		h.ctx,
		interval,
		h.config.Alert.WebhookURL,
		h.config.Alert.IterationCount,
	); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Dispatcher started successfully", h.dispatcher.GetStatus())
}

// StopDispatcher godoc
// @Summary Stop the outbox dispatcher
// @Tags dispatcher
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/dispatcher/stop [post]
func (h *DispatcherHandler) StopDispatcher(c echo.Context) error {
	if !h.dispatcher.IsRunning() {
		return response.OkWithMessage(c, "Dispatcher is already stopped", h.dispatcher.GetStatus())
	}

	if err := h.dispatcher.Stop(); err != nil {
		return response.InternalServerError(c, err)
	}

	return response.OkWithMessage(c, "Dispatcher stopped successfully", h.dispatcher.GetStatus())
}

// GetDispatcherStatus godoc
// @Summary Get dispatcher status
// @Tags dispatcher
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Success 200 {object} response.SuccessResponse
// @Router /api/v1/dispatcher/status [get]
func (h *DispatcherHandler) GetDispatcherStatus(c echo.Context) error {
	return response.Ok(c, h.dispatcher.GetStatus())
}
