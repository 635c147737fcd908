package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/ports"
	"os"
	"strings"
	"time"
)

// Initialize the Postgres schema.
func InitSchema(db *sql.DB) error {
	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id BIGSERIAL PRIMARY KEY,
		license TEXT NOT NULL,
		url TEXT NOT NULL,
		start_x DOUBLE PRECISION NOT NULL,
		start_y DOUBLE PRECISION NOT NULL,
		dest_x DOUBLE PRECISION NOT NULL,
		dest_y DOUBLE PRECISION NOT NULL,
		registered_at TIMESTAMPTZ NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		graph TEXT NOT NULL,
		from_node INTEGER NOT NULL,
		to_node INTEGER NOT NULL,
		waypoints TEXT NOT NULL,
		PRIMARY KEY (graph, from_node, to_node)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_vehicles_license ON vehicles(license);
	`

	return execSchema(db, createVehiclesQuery, createRouteCacheQuery, createIndexQuery)
}

// Initialize the SQLite schema. Timestamps are stored as unix nanoseconds.
func InitSQLiteSchema(db *sql.DB) error {
	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		license TEXT NOT NULL,
		url TEXT NOT NULL,
		start_x REAL NOT NULL,
		start_y REAL NOT NULL,
		dest_x REAL NOT NULL,
		dest_y REAL NOT NULL,
		registered_at INTEGER NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		graph TEXT NOT NULL,
		from_node INTEGER NOT NULL,
		to_node INTEGER NOT NULL,
		waypoints TEXT NOT NULL,
		PRIMARY KEY (graph, from_node, to_node)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_vehicles_license ON vehicles(license);
	`

	return execSchema(db, createVehiclesQuery, createRouteCacheQuery, createIndexQuery)
}

func execSchema(db *sql.DB, statements ...string) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	License      string     `json:"license"`
	URL          string     `json:"url"`
	Start        [2]float64 `json:"start"`
	Dest         [2]float64 `json:"dest"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
}

// Populate the journal with registrations from a JSON file.
// Records without a timestamp are stamped with the import time.
func SeedFromJSON(ctx context.Context, repo ports.VehicleRepository, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed vehicles: read %q: %w", jsonPath, err)
	}

	var data []VehicleSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed vehicles: parse json: %w", err)
	}

	now := time.Now().UTC()
	rows := make([]domain.Vehicle, 0, len(data))
	for i, item := range data {
		license := strings.TrimSpace(item.License)
		if license == "" {
			return 0, fmt.Errorf("seed vehicles: item at index %d: license cannot be empty", i+1)
		}

		at := now
		if item.RegisteredAt != nil {
			at = *item.RegisteredAt
		}

		rows = append(rows, domain.Vehicle{
			License:      license,
			URL:          strings.TrimSpace(item.URL),
			Start:        domain.Point{X: item.Start[0], Y: item.Start[1]},
			Dest:         domain.Point{X: item.Dest[0], Y: item.Dest[1]},
			RegisteredAt: at,
		})
	}

	for _, v := range rows {
		if err := repo.SaveVehicle(ctx, v); err != nil {
			return 0, fmt.Errorf("seed vehicles: license=%s: %w", v.License, err)
		}
	}

	return len(rows), nil
}
