package handlers

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/internal/service"
	"github.com/onurcolak/restaurant-concierge/pkg/response"
	"github.com/onurcolak/restaurant-concierge/pkg/validator"
)

type restaurantService interface {
	Lookup(ctx context.Context, rawTrigger string) (*domain.Restaurant, error)
	Preview(ctx context.Context, req service.PreviewRequest) (*service.Preview, error)
}

type RestaurantHandler struct {
	service restaurantService
}

func NewRestaurantHandler(service restaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

type PreviewRequest struct {
	TriggerName string `json:"triggerName" validate:"required,max=255"`
	Language    string `json:"language" validate:"omitempty,oneof=it en de fr es"`
	FirstName   string `json:"firstName" validate:"max=64"`
}

// GetRestaurant godoc
// @Summary Look up a restaurant by trigger name
// @Description Resolves the trigger name with the same normalization and cache as the webhook
// @Tags restaurants
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param trigger path string true "Trigger name, e.g. trattoria roma"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/restaurants/{trigger} [get]
func (h *RestaurantHandler) GetRestaurant(c echo.Context) error {
	restaurant, err := h.service.Lookup(c.Request().Context(), c.Param("trigger"))
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return response.NotFound(c, "Restaurant not found")
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, restaurant)
}

// PreviewMessages godoc
// @Summary Preview the welcome and review messages
// @Description Renders both messages for a restaurant, the follow-up time and template warnings without sending anything
// @Tags restaurants
// @Accept json
// @Produce json
// @Param x-admin-key header string true "Admin API key"
// @Param request body PreviewRequest true "Preview parameters"
// @Success 200 {object} response.SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /api/v1/restaurants/preview [post]
func (h *RestaurantHandler) PreviewMessages(c echo.Context) error {
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return validator.HandleValidationError(c, err)
	}

	preview, err := h.service.Preview(c.Request().Context(), service.PreviewRequest{
		TriggerName: req.TriggerName,
		Language:    domain.Language(req.Language),
		FirstName:   req.FirstName,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRestaurantNotFound):
			return response.NotFound(c, "Restaurant not found")
		case errors.Is(err, domain.ErrTemplateMissing):
			return response.UnprocessableEntity(c, err)
		}
		return response.InternalServerError(c, err)
	}

	return response.Ok(c, preview)
}
