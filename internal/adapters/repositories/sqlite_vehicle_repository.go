package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"time"
)

// SQLite-backed implementation of the VehicleRepository port.
type SqliteVehicleRepository struct{ DB *sql.DB }

func NewSqliteVehicleRepository(db *sql.DB) *SqliteVehicleRepository {
	return &SqliteVehicleRepository{DB: db}
}

func (s *SqliteVehicleRepository) SaveVehicle(ctx context.Context, v domain.Vehicle) error {
	if s.DB == nil {
		return errors.New("sqlite vehicle repository: DB is nil")
	}

	query := `
	INSERT INTO vehicles (
		license,
		url,
		start_x,
		start_y,
		dest_x,
		dest_y,
		registered_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	_, err := s.DB.ExecContext(ctx, query,
		v.License, v.URL, v.Start.X, v.Start.Y, v.Dest.X, v.Dest.Y, v.RegisteredAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save vehicle license=%s: %w", v.License, err)
	}

	return nil
}

// Return every recorded registration, oldest first.
func (s *SqliteVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite vehicle repository: DB is nil")
	}

	query := `
	SELECT
		license,
		url,
		start_x,
		start_y,
		dest_x,
		dest_y,
		registered_at
	FROM vehicles
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.Vehicle, 0, 64)
	for rows.Next() {
		var v domain.Vehicle
		var at int64
		err := rows.Scan(&v.License, &v.URL, &v.Start.X, &v.Start.Y, &v.Dest.X, &v.Dest.Y, &at)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		v.RegisteredAt = time.Unix(0, at).UTC()
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
