package domain

import "time"

// A remotely-addressable vehicle registered with the coordinator.
// URL is the base of the vehicle's own remote control endpoint.
// Vehicles are created on registration and never mutated or removed.
type Vehicle struct {
	License      string
	URL          string
	Start        Point
	Dest         Point
	RegisteredAt time.Time
}
