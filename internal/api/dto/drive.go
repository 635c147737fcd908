package dto

import "hivemind-service/internal/services"

type ListDrivesResponse struct {
	Drives []services.DriveStatus `json:"drives"`
}
