package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
)

const restaurantColumns = `id, trigger_name, name, welcome_templates, review_templates,
	review_delay_hours, menu_url, wifi_password, review_link, created_at, updated_at`

// RestaurantRepository reads restaurant records by their normalized trigger
// name. The concierge never writes through it; Upsert exists for seeding.
type RestaurantRepository struct {
	db *sqlx.DB
}

func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// FindByTriggerName returns nil, nil when no record matches.
func (r *RestaurantRepository) FindByTriggerName(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants WHERE trigger_name = ? LIMIT 1`

	var restaurant domain.Restaurant
	if err := r.db.GetContext(ctx, &restaurant, query, triggerName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get restaurant by trigger name: %w", err)
	}

	return &restaurant, nil
}

func (r *RestaurantRepository) List(ctx context.Context) ([]domain.Restaurant, error) {
	query := `SELECT ` + restaurantColumns + ` FROM restaurants ORDER BY trigger_name ASC`

	var restaurants []domain.Restaurant
	if err := r.db.SelectContext(ctx, &restaurants, query); err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}

	return restaurants, nil
}

// Upsert inserts the record or replaces the one with the same trigger name.
func (r *RestaurantRepository) Upsert(ctx context.Context, restaurant *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (
			trigger_name, name, welcome_templates, review_templates,
			review_delay_hours, menu_url, wifi_password, review_link
		) VALUES (
			:trigger_name, :name, :welcome_templates, :review_templates,
			:review_delay_hours, :menu_url, :wifi_password, :review_link
		)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			welcome_templates = VALUES(welcome_templates),
			review_templates = VALUES(review_templates),
			review_delay_hours = VALUES(review_delay_hours),
			menu_url = VALUES(menu_url),
			wifi_password = VALUES(wifi_password),
			review_link = VALUES(review_link),
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.NamedExecContext(ctx, query, restaurant); err != nil {
		return fmt.Errorf("failed to upsert restaurant %q: %w", restaurant.TriggerName, err)
	}

	return nil
}
