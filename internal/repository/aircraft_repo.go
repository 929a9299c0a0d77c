package repository

import (
	"context"
	"database/sql"
	"errors"

	"flightline/internal/models"
)

// ErrAircraftNotFound indicates a missing aircraft record.
var ErrAircraftNotFound = errors.New("aircraft not found")

// AircraftRepository handles persistence of aircraft records.
type AircraftRepository struct {
	db *sql.DB
}

// NewAircraftRepository returns repository.
func NewAircraftRepository(db *sql.DB) *AircraftRepository {
	return &AircraftRepository{db: db}
}

// Create inserts an aircraft record.
func (r *AircraftRepository) Create(ctx context.Context, a *models.Aircraft) (*models.Aircraft, error) {
	const query = `
		INSERT INTO aircraft (registration, model, hobbs_meter, tacho_meter, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		a.Registration,
		a.Model,
		a.HobbsMeter,
		a.TachoMeter,
		a.IsActive,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID returns one aircraft.
func (r *AircraftRepository) GetByID(ctx context.Context, id int64) (*models.Aircraft, error) {
	const query = `
		SELECT id, registration, model, hobbs_meter, tacho_meter, is_active, created_at, updated_at
		FROM aircraft
		WHERE id = $1
	`
	var a models.Aircraft
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Registration,
		&a.Model,
		&a.HobbsMeter,
		&a.TachoMeter,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAircraftNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns active aircraft ordered by registration.
func (r *AircraftRepository) List(ctx context.Context) ([]models.Aircraft, error) {
	const query = `
		SELECT id, registration, model, hobbs_meter, tacho_meter, is_active, created_at, updated_at
		FROM aircraft
		WHERE is_active
		ORDER BY registration
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aircraft []models.Aircraft
	for rows.Next() {
		var a models.Aircraft
		if err := rows.Scan(
			&a.ID,
			&a.Registration,
			&a.Model,
			&a.HobbsMeter,
			&a.TachoMeter,
			&a.IsActive,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		aircraft = append(aircraft, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aircraft, nil
}
