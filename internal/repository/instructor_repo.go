package repository

import (
	"context"
	"database/sql"
	"errors"

	"flightline/internal/models"
)

// ErrInstructorNotFound indicates a missing instructor record.
var ErrInstructorNotFound = errors.New("instructor not found")

// InstructorRepository handles persistence of instructors and roster rules.
type InstructorRepository struct {
	db *sql.DB
}

// NewInstructorRepository returns repository.
func NewInstructorRepository(db *sql.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// Create inserts an instructor record.
func (r *InstructorRepository) Create(ctx context.Context, ins *models.Instructor) (*models.Instructor, error) {
	const query = `
		INSERT INTO instructors (name, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, ins.Name, ins.Email, ins.IsActive).
		Scan(&ins.ID, &ins.CreatedAt, &ins.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// GetByID returns one instructor.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*models.Instructor, error) {
	const query = `
		SELECT id, name, email, is_active, created_at, updated_at
		FROM instructors
		WHERE id = $1
	`
	var ins models.Instructor
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ins.ID,
		&ins.Name,
		&ins.Email,
		&ins.IsActive,
		&ins.CreatedAt,
		&ins.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstructorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ins, nil
}

// List returns active instructors ordered by name.
func (r *InstructorRepository) List(ctx context.Context) ([]models.Instructor, error) {
	const query = `
		SELECT id, name, email, is_active, created_at, updated_at
		FROM instructors
		WHERE is_active
		ORDER BY name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructors []models.Instructor
	for rows.Next() {
		var ins models.Instructor
		if err := rows.Scan(
			&ins.ID,
			&ins.Name,
			&ins.Email,
			&ins.IsActive,
			&ins.CreatedAt,
			&ins.UpdatedAt,
		); err != nil {
			return nil, err
		}
		instructors = append(instructors, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return instructors, nil
}

// RosterRules returns an instructor's duty windows for a weekday (0=Sunday).
func (r *InstructorRepository) RosterRules(ctx context.Context, instructorID int64, weekday int) ([]models.RosterRule, error) {
	const query = `
		SELECT id, instructor_id, weekday, start_min, end_min, created_at
		FROM roster_rules
		WHERE instructor_id = $1 AND weekday = $2
		ORDER BY start_min
	`
	rows, err := r.db.QueryContext(ctx, query, instructorID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.RosterRule
	for rows.Next() {
		var rule models.RosterRule
		if err := rows.Scan(&rule.ID, &rule.InstructorID, &rule.Weekday, &rule.StartMin, &rule.EndMin, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// AllRosterRules returns every duty window, used by the roster export.
func (r *InstructorRepository) AllRosterRules(ctx context.Context) ([]models.RosterRule, error) {
	const query = `
		SELECT id, instructor_id, weekday, start_min, end_min, created_at
		FROM roster_rules
		ORDER BY instructor_id, weekday, start_min
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.RosterRule
	for rows.Next() {
		var rule models.RosterRule
		if err := rows.Scan(&rule.ID, &rule.InstructorID, &rule.Weekday, &rule.StartMin, &rule.EndMin, &rule.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}

// SaveRosterRule inserts one duty window.
func (r *InstructorRepository) SaveRosterRule(ctx context.Context, rule *models.RosterRule) (*models.RosterRule, error) {
	const query = `
		INSERT INTO roster_rules (instructor_id, weekday, start_min, end_min, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, rule.InstructorID, rule.Weekday, rule.StartMin, rule.EndMin).
		Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rule, nil
}
