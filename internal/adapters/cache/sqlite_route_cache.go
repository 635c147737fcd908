package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/ports"
)

// SQLite backed cache of planned routes. Entries never expire; a changed
// map has a different fingerprint and so never reads them.
type SqliteRouteCache struct {
	DB *sql.DB
}

func NewSqliteRouteCache(db *sql.DB) *SqliteRouteCache {
	return &SqliteRouteCache{DB: db}
}

func (s *SqliteRouteCache) GetRoute(ctx context.Context, key ports.RouteKey) ([]domain.Waypoint, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}

	q := `
	SELECT waypoints
	FROM route_cache
	WHERE graph = ?
		AND from_node = ?
		AND to_node = ?;
	`

	var raw string
	err := s.DB.QueryRowContext(ctx, q, graphKey(key), key.From, key.To).Scan(&raw)
	return decodeRoute(key, raw, err)
}

func (s *SqliteRouteCache) PutRoute(ctx context.Context, key ports.RouteKey, route []domain.Waypoint) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	b, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache %s: encode: %w", key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO route_cache (
		graph,
		from_node,
		to_node,
		waypoints
	)
	VALUES (?, ?, ?, ?)
	`, graphKey(key), key.From, key.To, string(b))
	if err != nil {
		return fmt.Errorf("insert route cache %s: %w", key, err)
	}

	return nil
}
