package ports

import (
	"context"
	"hivemind-service/internal/domain"
)

// Port: a durable journal of vehicle registrations.
type VehicleRepository interface {
	// Record one registration.
	SaveVehicle(ctx context.Context, v domain.Vehicle) error
	// Retrieve every recorded registration, oldest first.
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
}
