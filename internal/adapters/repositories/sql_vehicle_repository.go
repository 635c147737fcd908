package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hivemind-service/internal/domain"
	"hivemind-service/internal/platform/obs"
)

// Postgres-backed implementation of the VehicleRepository port.
type SQLVehicleRepository struct{ DB *sql.DB }

func NewSQLVehicleRepository(db *sql.DB) *SQLVehicleRepository {
	return &SQLVehicleRepository{DB: db}
}

func (s *SQLVehicleRepository) SaveVehicle(ctx context.Context, v domain.Vehicle) (err error) {
	defer obs.Time(ctx, "vehicles.Save")(&err)

	if s.DB == nil {
		return errors.New("sql vehicle repository: DB is nil")
	}

	query := `
	INSERT INTO vehicles (license, url, start_x, start_y, dest_x, dest_y, registered_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = s.DB.ExecContext(ctx, query,
		v.License, v.URL, v.Start.X, v.Start.Y, v.Dest.X, v.Dest.Y, v.RegisteredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save vehicle license=%s: %w", v.License, err)
	}

	return nil
}

// Return every recorded registration, oldest first.
func (s *SQLVehicleRepository) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("sql vehicle repository: DB is nil")
	}

	query := `
	SELECT license, url, start_x, start_y, dest_x, dest_y, registered_at
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
		err := rows.Scan(&v.License, &v.URL, &v.Start.X, &v.Start.Y, &v.Dest.X, &v.Dest.Y, &v.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
