package api

import (
	"hivemind-service/internal/api/handlers"
	"hivemind-service/internal/services"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(coord *services.Coordinator) http.Handler {
	r := mux.NewRouter()

	vehicleHandler := &handlers.VehicleHandler{Coordinator: coord}
	driveHandler := &handlers.DriveHandler{Dispatcher: coord.Dispatcher}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/register-car", vehicleHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/car-count", vehicleHandler.Count).Methods(http.MethodGet)
	r.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/drives", driveHandler.List).Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(r))
}
