package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/obs"
	"hivemind-service/internal/ports"
	"time"

	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "route:"

// RedisRouteCache stores planned routes as JSON values with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRouteCache wraps an existing client. A ttl of zero keeps entries
// until evicted.
func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("dial redis %q: %w", addr, err)
	}
	return client, nil
}

func (c *RedisRouteCache) GetRoute(ctx context.Context, key ports.RouteKey) (_ []domain.Waypoint, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	b, err := c.client.Get(ctx, routeKeyPrefix+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache %s: %w", key, err)
	}

	var route []domain.Waypoint
	if err := json.Unmarshal(b, &route); err != nil {
		return nil, false, fmt.Errorf("get route cache %s: decode: %w", key, err)
	}

	return route, true, nil
}

func (c *RedisRouteCache) PutRoute(ctx context.Context, key ports.RouteKey, route []domain.Waypoint) error {
	b, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("put route cache %s: encode: %w", key, err)
	}

	if err := c.client.Set(ctx, routeKeyPrefix+key.String(), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("put route cache %s: %w", key, err)
	}

	return nil
}
