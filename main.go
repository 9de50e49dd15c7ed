package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/handlers"
	"github.com/onurcolak/restaurant-concierge/internal/delivery"
	"github.com/onurcolak/restaurant-concierge/internal/language"
	"github.com/onurcolak/restaurant-concierge/internal/middlewares"
	"github.com/onurcolak/restaurant-concierge/internal/repository"
	"github.com/onurcolak/restaurant-concierge/internal/scheduler"
	"github.com/onurcolak/restaurant-concierge/internal/service"
	"github.com/onurcolak/restaurant-concierge/internal/trigger"
	"github.com/onurcolak/restaurant-concierge/pkg/database"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
	"github.com/onurcolak/restaurant-concierge/pkg/metrics"
	"github.com/onurcolak/restaurant-concierge/pkg/redis"
	"github.com/onurcolak/restaurant-concierge/pkg/sentry"
	"github.com/onurcolak/restaurant-concierge/pkg/twilio"
	"github.com/onurcolak/restaurant-concierge/pkg/validator"
	"github.com/onurcolak/restaurant-concierge/pkg/webhook"
	"github.com/onurcolak/restaurant-concierge/routes"

	_ "github.com/onurcolak/restaurant-concierge/docs" // swagger docs
)

// @title Restaurant Concierge API
// @version 1.0
// @description WhatsApp concierge for restaurants: welcome replies and review follow-ups

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	// Load config
	cfg := environments.Load()

	logger.Init(cfg.Log.Level)

	// Hard-fail if required secrets are missing
	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
		logger.Fatalf("TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required but not set")
	}
	if cfg.Twilio.FromNumber == "" && cfg.Twilio.MessagingServiceSID == "" {
		logger.Fatalf("TWILIO_WHATSAPP_NUMBER or TWILIO_MESSAGING_SERVICE_SID is required")
	}
	if cfg.Auth.AdminAPIKey == "" {
		logger.Fatalf("ADMIN_API_KEY is required but not set")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}); err != nil {
		logger.Warnf("Sentry initialization failed, error reporting disabled: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	logger.Infof("Starting Restaurant Concierge...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Init redis
	redisClient, err := redis.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Warnf("Redis not available, caching disabled: %v", err)
		redisClient = nil
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	greetings, err := trigger.ParseGreetings(cfg.Concierge.Greetings)
	if err != nil {
		logger.Warnf("Invalid CONCIERGE_GREETINGS, using defaults: %v", err)
		greetings = trigger.DefaultGreetings
	}

	quiet := delivery.QuietHours{
		Location:   delivery.LoadLocation(cfg.Concierge.TimeZone),
		StartHour:  cfg.Concierge.QuietStartHour,
		EndHour:    cfg.Concierge.QuietEndHour,
		ResumeHour: cfg.Concierge.QuietResumeHour,
	}
	if err := quiet.Validate(); err != nil {
		logger.Warnf("Invalid quiet hours, using defaults: %v", err)
		quiet = delivery.DefaultQuietHours()
	}

	twilioClient := twilio.NewClient(cfg.Twilio)
	if !twilioClient.SupportsScheduling() && cfg.Delivery.SchedulingMode == environments.SchedulingNative {
		logger.Warnf("No messaging service configured, follow-ups will use the outbox")
	}

	// Initialize repositories
	restaurantRepo := repository.NewRestaurantRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	// A nil *redis.Client must not end up inside an interface.
	var (
		restaurants     *service.RestaurantLookup
		deliveryService *service.DeliveryService
		healthHandler   *handlers.HealthHandler
	)
	if redisClient != nil {
		defer redisClient.Close()
		restaurants = service.NewRestaurantLookup(restaurantRepo, redisClient, appMetrics)
		deliveryService = service.NewDeliveryService(deliveryRepo, twilioClient, redisClient, appMetrics, cfg.Delivery)
		healthHandler = handlers.NewHealthHandler(db, redisClient)
	} else {
		restaurants = service.NewRestaurantLookup(restaurantRepo, nil, appMetrics)
		deliveryService = service.NewDeliveryService(deliveryRepo, twilioClient, nil, appMetrics, cfg.Delivery)
		healthHandler = handlers.NewHealthHandler(db, nil)
	}

	followUps := delivery.NewScheduler(deliveryService, delivery.Config{
		QuietHours:        quiet,
		DefaultDelayHours: cfg.Concierge.DefaultDelayHours,
		SubmitTimeout:     cfg.Concierge.SendTimeout,
	})

	concierge := service.NewConciergeService(
		language.Default(),
		trigger.NewMatcher(greetings),
		restaurants,
		deliveryService,
		followUps,
		sentry.Reporter{},
		appMetrics,
		service.ConciergeConfig{
			LookupTimeout: cfg.Concierge.LookupTimeout,
			SendTimeout:   cfg.Concierge.SendTimeout,
		},
	)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize outbox dispatcher
	dispatcher := scheduler.NewDispatcher(
		deliveryService,
		webhook.NewClient(10*time.Second),
		appMetrics,
		cfg.Delivery.DispatchInterval,
	)

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(concierge)
	restaurantHandler := handlers.NewRestaurantHandler(concierge)
	deliveryHandler := handlers.NewDeliveryHandler(deliveryService)
	dispatcherHandler := handlers.NewDispatcherHandler(dispatcher, ctx, cfg)

	// Auto-start dispatcher
	if cfg.Delivery.AutoStartDispatcher {
		logger.Infof("Auto-starting outbox dispatcher...")
		if err := dispatcher.StartWithParams(
			ctx,
			cfg.Delivery.DispatchInterval,
			cfg.Alert.WebhookURL,
			cfg.Alert.IterationCount,
		); err != nil {
			logger.Warnf("Failed to auto-start dispatcher: %v", err)
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middlewares.APIKeyHeader,
		},
	}))

	// Setup routes
	routes.RegisterRoutes(
		e,
		healthHandler,
		webhookHandler,
		restaurantHandler,
		deliveryHandler,
		dispatcherHandler,
		registry,
		cfg,
	)

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Stop accepting webhooks before the dispatcher goes away
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	if dispatcher.IsRunning() {
		logger.Infof("Stopping dispatcher...")
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()

		done := make(chan error, 1)
		go func() {
			done <- dispatcher.Stop()
		}()

		select {
		case err := <-done:
			if err != nil {
				logger.Errorf("Error stopping dispatcher: %v", err)
			}
		case <-stopCtx.Done():
			logger.Warnf("Dispatcher stop timeout, forcing shutdown")
		}
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	logger.Infof("Shutdown complete")
}
