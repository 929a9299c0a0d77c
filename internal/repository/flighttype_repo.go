package repository

import (
	"context"
	"database/sql"

	"flightline/internal/models"
)

// FlightTypeRepository handles the flight type catalog used for rate lookup.
type FlightTypeRepository struct {
	db *sql.DB
}

// NewFlightTypeRepository returns repository.
func NewFlightTypeRepository(db *sql.DB) *FlightTypeRepository {
	return &FlightTypeRepository{db: db}
}

// Create inserts a flight type.
func (r *FlightTypeRepository) Create(ctx context.Context, ft *models.FlightType) (*models.FlightType, error) {
	const query = `
		INSERT INTO flight_types (name, is_active, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, ft.Name, ft.IsActive).Scan(&ft.ID, &ft.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ft, nil
}

// List returns active flight types.
func (r *FlightTypeRepository) List(ctx context.Context) ([]models.FlightType, error) {
	const query = `
		SELECT id, name, is_active, created_at
		FROM flight_types
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.FlightType
	for rows.Next() {
		var ft models.FlightType
		if err := rows.Scan(&ft.ID, &ft.Name, &ft.IsActive, &ft.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, ft)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return types, nil
}
