package ports

import (
	"context"
	"hivemind-service/internal/domain"
)

// Port: the external fleet-registry service told about new registrations.
type RegistryNotifier interface {
	NotifyRegistered(ctx context.Context, v domain.Vehicle) error
}
