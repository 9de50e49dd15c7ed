package main

import (
	"context"
	"time"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/internal/repository"
	"github.com/onurcolak/restaurant-concierge/internal/templates"
	"github.com/onurcolak/restaurant-concierge/internal/trigger"
	"github.com/onurcolak/restaurant-concierge/pkg/database"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

func main() {
	cfg := environments.Load()
	logger.Init(cfg.Log.Level)

	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Errorf("Failed to close database: %v", err)
		}
	}()

	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := repository.NewRestaurantRepository(db)
	for _, restaurant := range demoRestaurants() {
		restaurant.TriggerName = trigger.Normalize(restaurant.TriggerName)
		lintRestaurant(restaurant.TriggerName, restaurant.WelcomeTemplates, templates.CategoryWelcome)
		lintRestaurant(restaurant.TriggerName, restaurant.ReviewTemplates, templates.CategoryReview)

		if err := repo.Upsert(ctx, &restaurant); err != nil {
			logger.Fatalf("Failed to seed restaurant: %v", err)
		}
		logger.Infof("Seeded restaurant %q", restaurant.TriggerName)
	}

	logger.Infof("Seed completed successfully")
}

// lintRestaurant logs template warnings. They never block seeding.
func lintRestaurant(triggerName string, set domain.Templates, category templates.Category) {
	for lang, tmpl := range set {
		for _, warning := range templates.Lint(category, tmpl) {
			logger.Warnf("%s %s template [%s]: %s", triggerName, category, lang, warning)
		}
	}
}
