package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/onurcolak/restaurant-concierge/environments"
	"github.com/onurcolak/restaurant-concierge/internal/domain"
	"github.com/onurcolak/restaurant-concierge/pkg/logger"
)

type Client struct {
	client        valkey.Client
	restaurantTTL time.Duration
	deliveryTTL   time.Duration
}

const (
	restaurantKeyPrefix    = "restaurant:"
	sentDeliveryKeyPrefix  = "sent_delivery:"
	defaultRestaurantTTL   = 10 * time.Minute
	defaultSentDeliveryTTL = 24 * time.Hour
)

func NewRedisClient(cfg environments.RedisConfig) (*Client, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Password:    cfg.Password,
		SelectDB:    cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Valkey client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Connected to Redis (via Valkey client)")

	return newClient(client, cfg), nil
}

func newClient(client valkey.Client, cfg environments.RedisConfig) *Client {
	restaurantTTL := cfg.RestaurantTTL
	if restaurantTTL <= 0 {
		restaurantTTL = defaultRestaurantTTL
	}
	deliveryTTL := cfg.DeliveryTTL
	if deliveryTTL <= 0 {
		deliveryTTL = defaultSentDeliveryTTL
	}
	return &Client{client: client, restaurantTTL: restaurantTTL, deliveryTTL: deliveryTTL}
}

// GetRestaurant returns nil, nil on a cache miss.
func (c *Client) GetRestaurant(ctx context.Context, triggerName string) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	found, err := c.getJSON(ctx, restaurantKeyPrefix+triggerName, &restaurant)
	if err != nil || !found {
		return nil, err
	}
	return &restaurant, nil
}

func (c *Client) CacheRestaurant(ctx context.Context, restaurant *domain.Restaurant) error {
	if err := c.setJSON(ctx, restaurantKeyPrefix+restaurant.TriggerName, restaurant, c.restaurantTTL); err != nil {
		return fmt.Errorf("failed to cache restaurant: %w", err)
	}
	return nil
}

func (c *Client) CacheSentDelivery(ctx context.Context, deliveryID int64, providerSID string, sentAt time.Time) error {
	cache := domain.SentDeliveryCache{
		ProviderSID: providerSID,
		SentAt:      sentAt,
	}

	key := fmt.Sprintf("%s%d", sentDeliveryKeyPrefix, deliveryID)
	if err := c.setJSON(ctx, key, cache, c.deliveryTTL); err != nil {
		return fmt.Errorf("failed to cache sent delivery: %w", err)
	}

	logger.Debugf("Cached delivery ID %d -> %s in Redis", deliveryID, providerSID)

	return nil
}

func (c *Client) GetCachedDelivery(ctx context.Context, deliveryID int64) (*domain.SentDeliveryCache, error) {
	var cache domain.SentDeliveryCache
	found, err := c.getJSON(ctx, fmt.Sprintf("%s%d", sentDeliveryKeyPrefix, deliveryID), &cache)
	if err != nil || !found {
		return nil, err
	}
	return &cache, nil
}

func (c *Client) GetAllCachedDeliveries(ctx context.Context) (map[int64]*domain.SentDeliveryCache, error) {
	pattern := fmt.Sprintf("%s*", sentDeliveryKeyPrefix)

	var keys []string
	var cursor uint64
	for {
		result := c.client.Do(ctx, c.client.B().Scan().Cursor(cursor).Match(pattern).Count(100).Build())
		if result.Error() != nil {
			return nil, fmt.Errorf("failed to scan cache keys: %w", result.Error())
		}

		scanResult, err := result.AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("failed to parse scan result: %w", err)
		}

		keys = append(keys, scanResult.Elements...)
		cursor = scanResult.Cursor

		if cursor == 0 {
			break
		}
	}

	result := make(map[int64]*domain.SentDeliveryCache, len(keys))

	for _, key := range keys {
		var deliveryID int64
		if _, err := fmt.Sscanf(key, sentDeliveryKeyPrefix+"%d", &deliveryID); err != nil {
			logger.Warnf("failed to parse delivery id from redis key %q: %v", key, err)
			continue
		}

		var cache domain.SentDeliveryCache
		found, err := c.getJSON(ctx, key, &cache)
		if err != nil || !found {
			continue
		}

		result[deliveryID] = &cache
	}

	return result, nil
}

func (c *Client) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	result := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if err := result.Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	data, err := result.ToString()
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

func (c *Client) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	return c.client.Do(ctx, c.client.B().Set().Key(key).Value(string(data)).Ex(ttl).Build()).Error()
}

func (c *Client) Close() error {
	c.client.Close()
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}
