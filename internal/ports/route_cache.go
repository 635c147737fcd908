package ports

import (
	"context"
	"fmt"
	"hivemind-service/internal/domain"
)

// Identifies a planned route between two snapped graph nodes.
type RouteKey struct {
	Graph uint64
	From  int
	To    int
}

func (k RouteKey) String() string {
	return fmt.Sprintf("%016x:%d:%d", k.Graph, k.From, k.To)
}

// Contract for caching computed waypoint sequences.
type RouteCache interface {
	// Return the cached route and whether it was found.
	GetRoute(ctx context.Context, key RouteKey) ([]domain.Waypoint, bool, error)
	PutRoute(ctx context.Context, key RouteKey, route []domain.Waypoint) error
}
