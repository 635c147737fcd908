package handlers

import (
	"hivemind-service/internal/api/dto"
	"hivemind-service/internal/services"
	"net/http"
)

// DriveHandler exposes the dispatcher's task-handle table.
type DriveHandler struct {
	Dispatcher *services.Dispatcher
}

func (h *DriveHandler) List(w http.ResponseWriter, r *http.Request) {
	res := dto.ListDrivesResponse{Drives: h.Dispatcher.Handles()}
	writeJSON(w, r, http.StatusOK, res)
}
