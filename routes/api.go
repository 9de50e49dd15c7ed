package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/handlers"
	"github.com/onurcolak/restaurant-concierge/internal/middlewares"
)

// RegisterRoutes registers all API routes with middleware
func RegisterRoutes(
	e *echo.Echo,
	healthHandler *handlers.HealthHandler,
	webhookHandler *handlers.WebhookHandler,
	restaurantHandler *handlers.RestaurantHandler,
	deliveryHandler *handlers.DeliveryHandler,
	dispatcherHandler *handlers.DispatcherHandler,
	registry *prometheus.Registry,
	cfg *environments.Config,
) {
	e.GET("/health", healthHandler.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// API v1 base group
	v1 := e.Group("/api/v1")

	// Twilio webhook, authenticated by request signature
	whatsapp := v1.Group("/whatsapp")
	whatsapp.GET("/webhook", webhookHandler.WebhookStatus)
	whatsapp.POST("/webhook", webhookHandler.ReceiveMessage, middlewares.TwilioSignature(middlewares.TwilioSignatureConfig{
		AuthToken:     cfg.Twilio.AuthToken,
		Enabled:       cfg.Twilio.ValidateSignature,
		PublicBaseURL: cfg.Twilio.PublicBaseURL,
	}))

	admin := middlewares.APIKeyAuth(cfg.Auth.AdminAPIKey)

	restaurants := v1.Group("/restaurants", admin)
	restaurants.POST("/preview", restaurantHandler.PreviewMessages)
	restaurants.GET("/:trigger", restaurantHandler.GetRestaurant)

	deliveries := v1.Group("/deliveries", admin)
	deliveries.GET("", deliveryHandler.GetDeliveries)
	deliveries.GET("/stats", deliveryHandler.GetStats)
	deliveries.GET("/cached", deliveryHandler.GetCachedDeliveries)
	deliveries.POST("/replay", deliveryHandler.ReplayAllFailedDeliveries)
	deliveries.GET("/:id", deliveryHandler.GetDelivery)
	deliveries.POST("/:id/replay", deliveryHandler.ReplayFailedDelivery)

	dispatcher := v1.Group("/dispatcher", admin)
	dispatcher.POST("/start", dispatcherHandler.StartDispatcher)
	dispatcher.POST("/stop", dispatcherHandler.StopDispatcher)
	dispatcher.GET("/status", dispatcherHandler.GetDispatcherStatus)
}
