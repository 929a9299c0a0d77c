package repository

import (
	"context"
	"database/sql"
	"errors"

	"flightline/internal/models"
)

// ErrChargeRateNotFound indicates no rate is configured for the pair.
var ErrChargeRateNotFound = errors.New("charge rate not found")

// ChargeRateRepository handles charge rate and chargeable catalog lookups.
type ChargeRateRepository struct {
	db *sql.DB
}

// NewChargeRateRepository returns repository.
func NewChargeRateRepository(db *sql.DB) *ChargeRateRepository {
	return &ChargeRateRepository{db: db}
}

// Lookup resolves the rate for a (resource kind, resource id, flight type)
// triple.
func (r *ChargeRateRepository) Lookup(ctx context.Context, resourceKind string, resourceID, flightTypeID int64) (*models.ChargeRate, error) {
	const query = `
		SELECT id, resource_kind, resource_id, flight_type_id, rate_per_hour,
		       charge_hobbs, charge_tacho, charge_airswitch, created_at, updated_at
		FROM charge_rates
		WHERE resource_kind = $1 AND resource_id = $2 AND flight_type_id = $3
	`
	var rate models.ChargeRate
	err := r.db.QueryRowContext(ctx, query, resourceKind, resourceID, flightTypeID).Scan(
		&rate.ID,
		&rate.ResourceKind,
		&rate.ResourceID,
		&rate.FlightTypeID,
		&rate.RatePerHour,
		&rate.ChargeHobbs,
		&rate.ChargeTacho,
		&rate.ChargeAirswitch,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChargeRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// Upsert writes a rate configuration for a pair.
func (r *ChargeRateRepository) Upsert(ctx context.Context, rate *models.ChargeRate) (*models.ChargeRate, error) {
	const query = `
		INSERT INTO charge_rates (resource_kind, resource_id, flight_type_id, rate_per_hour, charge_hobbs, charge_tacho, charge_airswitch, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (resource_kind, resource_id, flight_type_id) DO UPDATE SET
			rate_per_hour = EXCLUDED.rate_per_hour,
			charge_hobbs = EXCLUDED.charge_hobbs,
			charge_tacho = EXCLUDED.charge_tacho,
			charge_airswitch = EXCLUDED.charge_airswitch,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rate.ResourceKind,
		rate.ResourceID,
		rate.FlightTypeID,
		rate.RatePerHour,
		rate.ChargeHobbs,
		rate.ChargeTacho,
		rate.ChargeAirswitch,
	).Scan(&rate.ID, &rate.CreatedAt, &rate.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// ListChargeables returns the active fee catalog.
func (r *ChargeRateRepository) ListChargeables(ctx context.Context) ([]models.Chargeable, error) {
	const query = `
		SELECT id, name, fee_group, unit_price, tax_rate, is_active, created_at
		FROM chargeables
		WHERE is_active
		ORDER BY fee_group, name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargeables []models.Chargeable
	for rows.Next() {
		var c models.Chargeable
		if err := rows.Scan(&c.ID, &c.Name, &c.Group, &c.UnitPrice, &c.TaxRate, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		chargeables = append(chargeables, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargeables, nil
}
