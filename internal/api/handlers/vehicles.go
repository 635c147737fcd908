package handlers

import (
	"errors"
	"hivemind-service/internal/api/dto"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/obs"
	"hivemind-service/internal/services"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// VehicleHandler exposes vehicle registration and fleet queries.
type VehicleHandler struct {
	Coordinator *services.Coordinator
}

// Register admits a vehicle from a form-encoded request and starts its
// drive loop. Numeric fields that fail to parse count as 0.
func (h *VehicleHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeText(w, r, http.StatusBadRequest, "Invalid form body")
		return
	}

	req := services.RegisterVehicleRequest{
		License: r.PostForm.Get("license"),
		URL:     r.PostForm.Get("url"),
		Start: domain.Point{
			X: formFloat(r, "start_x"),
			Y: formFloat(r, "start_y"),
		},
		Dest: domain.Point{
			X: formFloat(r, "dest_x"),
			Y: formFloat(r, "dest_y"),
		},
	}

	v, err := h.Coordinator.RegisterVehicle(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrNoPath):
		writeText(w, r, http.StatusBadRequest, "No path found for car %s", req.License)
	case errors.Is(err, services.ErrEntryDenied):
		writeText(w, r, http.StatusForbidden, "Car %s not allowed to enter roadway", req.License)
	case err != nil:
		log.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Error("register vehicle failed")
		writeText(w, r, http.StatusInternalServerError, "Internal server error")
	default:
		writeText(w, r, http.StatusOK, "Car registered: %s url=%s", v.License, v.URL)
	}
}

// Count reports how many vehicles have been registered.
func (h *VehicleHandler) Count(w http.ResponseWriter, r *http.Request) {
	writeText(w, r, http.StatusOK, "Total cars registered: %d", h.Coordinator.Registry.Count())
}

// List returns every registered vehicle in registration order.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles := h.Coordinator.Registry.Snapshot()

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			License:      v.License,
			URL:          v.URL,
			Start:        v.Start,
			Dest:         v.Dest,
			RegisteredAt: v.RegisteredAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func formFloat(r *http.Request, key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(r.PostForm.Get(key)), 64)
	if err != nil {
		return 0
	}
	return f
}
