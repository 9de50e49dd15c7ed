package service

import (
	"context"

	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

const restaurantCacheModule = "restaurant"

type restaurantStore interface {
	FindByTriggerName(ctx context.Context, triggerName string) (*domain.Restaurant, error)
}

type restaurantCache interface {
	GetRestaurant(ctx context.Context, triggerName string) (*domain.Restaurant, error)
	CacheRestaurant(ctx context.Context, restaurant *domain.Restaurant) error
}

type cacheMetrics interface {
	RecordCacheHit(module string)
	RecordCacheMiss(module string)
}

// RestaurantLookup resolves normalized trigger names to restaurant records,
// reading through the cache when one is configured. Misses are not cached.
type RestaurantLookup struct {
	store   restaurantStore
	cache   restaurantCache
	metrics cacheMetrics
}

func NewRestaurantLookup(store restaurantStore, cache restaurantCache, metrics cacheMetrics) *RestaurantLookup {
	return &RestaurantLookup{store: store, cache: cache, metrics: metrics}
}

// FindByTriggerName returns nil, nil when no restaurant matches.
func (l *RestaurantLookup) FindByTriggerName(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	if l.cache != nil {
		cached, err := l.cache.GetRestaurant(ctx, triggerName)
		if err != nil {
			logger.Warnf("Restaurant cache read failed for %q: %v", triggerName, err)
		} else if cached != nil {
			l.recordHit()
			return cached, nil
		}
		l.recordMiss()
	}

	restaurant, err := l.store.FindByTriggerName(ctx, triggerName)
	if err != nil || restaurant == nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.CacheRestaurant(ctx, restaurant); err != nil {
			logger.Warnf("Failed to cache restaurant %q: %v", triggerName, err)
		}
	}

	return restaurant, nil
}

func (l *RestaurantLookup) recordHit() {
	if l.metrics != nil {
		l.metrics.RecordCacheHit(restaurantCacheModule)
	}
}

func (l *RestaurantLookup) recordMiss() {
	if l.metrics != nil {
		l.metrics.RecordCacheMiss(restaurantCacheModule)
	}
}
