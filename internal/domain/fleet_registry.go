package domain

import "sync"

// AdmissionPolicy decides whether a vehicle may enter the roadway.
type AdmissionPolicy func(v Vehicle) bool

// AdmitAll admits every vehicle. It is the only policy in production use;
// inter-vehicle conflict checks would plug in here.
func AdmitAll(Vehicle) bool { return true }

// FleetRegistry is the append-only store of registered vehicles.
//
// The lock is held only across the append/length operation itself, never
// across network calls. License uniqueness is not enforced: registering the
// same license twice keeps both entries.
type FleetRegistry struct {
	mu       sync.Mutex
	vehicles []Vehicle
	admit    AdmissionPolicy
}

// NewFleetRegistry returns an empty registry. A nil policy admits everyone.
func NewFleetRegistry(policy AdmissionPolicy) *FleetRegistry {
	if policy == nil {
		policy = AdmitAll
	}
	return &FleetRegistry{admit: policy}
}

// Register appends a vehicle.
func (r *FleetRegistry) Register(v Vehicle) {
	r.mu.Lock()
	r.vehicles = append(r.vehicles, v)
	r.mu.Unlock()
}

// Count returns the number of registered vehicles.
func (r *FleetRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.vehicles)
}

// Snapshot returns a copy of the registered vehicles in insertion order.
func (r *FleetRegistry) Snapshot() []Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Vehicle, len(r.vehicles))
	copy(out, r.vehicles)
	return out
}

// CanEnterRoadway applies the registry's admission policy.
func (r *FleetRegistry) CanEnterRoadway(v Vehicle) bool {
	return r.admit(v)
}
