package dto

import (
	"hivemind-service/internal/domain"
	"time"
)

type VehicleResponse struct {
	License      string       `json:"license"`
	URL          string       `json:"url"`
	Start        domain.Point `json:"start"`
	Dest         domain.Point `json:"dest"`
	RegisteredAt time.Time    `json:"registered_at"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
