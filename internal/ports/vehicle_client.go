package ports

import (
	"context"
	"hivemind-service/internal/domain"
)

// Contract for talking to a vehicle's own remote control endpoint.
// Implementations make exactly one attempt per call.
type VehicleClient interface {
	// Send a set_route or stop command to the vehicle at baseURL.
	SendCommand(ctx context.Context, baseURL string, cmd domain.Command) error
	// Return the vehicle's currently reported position.
	Position(ctx context.Context, baseURL string) (domain.Point, error)
}
