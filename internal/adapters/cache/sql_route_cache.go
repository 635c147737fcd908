package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/obs"
	"hivemind-service/internal/ports"
	"strconv"
)

// SQLRouteCache is a Postgres-backed cache of planned routes.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

func (s *SQLRouteCache) GetRoute(ctx context.Context, key ports.RouteKey) (_ []domain.Waypoint, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT waypoints
	FROM route_cache
	WHERE graph = $1
		AND from_node = $2
		AND to_node = $3;
	`

	var raw string
	err = s.DB.QueryRowContext(ctx, q, graphKey(key), key.From, key.To).Scan(&raw)
	return decodeRoute(key, raw, err)
}

func (s *SQLRouteCache) PutRoute(ctx context.Context, key ports.RouteKey, route []domain.Waypoint) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	b, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache %s: encode: %w", key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (graph, from_node, to_node, waypoints)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (graph, from_node, to_node) DO UPDATE
	SET waypoints = EXCLUDED.waypoints;
	`, graphKey(key), key.From, key.To, string(b))
	if err != nil {
		return fmt.Errorf("insert route cache %s: %w", key, err)
	}

	return nil
}

func graphKey(key ports.RouteKey) string {
	return strconv.FormatUint(key.Graph, 16)
}

func decodeRoute(key ports.RouteKey, raw string, err error) ([]domain.Waypoint, bool, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache %s: query route_cache table: %w", key, err)
	}

	var route []domain.Waypoint
	if err := json.Unmarshal([]byte(raw), &route); err != nil {
		return nil, false, fmt.Errorf("get route cache %s: decode: %w", key, err)
	}

	return route, true, nil
}
