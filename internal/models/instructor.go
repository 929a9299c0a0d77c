package models

import "time"

// Instructor represents an instructor record.
type Instructor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RosterRule defines a recurring duty window for an instructor: the half-open
// minute interval [StartMin, EndMin) on a given weekday (0=Sunday).
type RosterRule struct {
	ID           int64     `db:"id" json:"id"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id"`
	Weekday      int       `db:"weekday" json:"weekday"`
	StartMin     int       `db:"start_min" json:"start_min"`
	EndMin       int       `db:"end_min" json:"end_min"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
