package repository

import (
	"context"
	"database/sql"
	"errors"

	"flightline/internal/models"
)

// ErrSettingsNotFound indicates the school settings row is missing.
var ErrSettingsNotFound = errors.New("school settings not found")

// SettingsRepository reads the single-row school configuration.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository returns repository.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the school settings.
func (r *SettingsRepository) Get(ctx context.Context) (*models.SchoolSettings, error) {
	const query = `
		SELECT id, name, default_tax_rate, timezone, updated_at
		FROM school_settings
		ORDER BY id
		LIMIT 1
	`
	var s models.SchoolSettings
	err := r.db.QueryRowContext(ctx, query).Scan(&s.ID, &s.Name, &s.DefaultTaxRate, &s.Timezone, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EquipmentRepository handles non-aircraft bookable assets.
type EquipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository returns repository.
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Create inserts an equipment record.
func (r *EquipmentRepository) Create(ctx context.Context, e *models.Equipment) (*models.Equipment, error) {
	const query = `
		INSERT INTO equipment (name, category, is_active, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, e.Name, e.Category, e.IsActive).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// List returns active equipment.
func (r *EquipmentRepository) List(ctx context.Context) ([]models.Equipment, error) {
	const query = `
		SELECT id, name, category, is_active, created_at
		FROM equipment
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var equipment []models.Equipment
	for rows.Next() {
		var e models.Equipment
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		equipment = append(equipment, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return equipment, nil
}
