package models

import "time"

// Booking statuses.
const (
	BookingStatusScheduled = "scheduled"
	BookingStatusCheckedIn = "checked_in"
	BookingStatusInvoiced  = "invoiced"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a scheduled flight or equipment reservation. Recurring
// bookings share a RecurrenceID; each occurrence is its own row.
type Booking struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	AircraftID   int64     `db:"aircraft_id" json:"aircraft_id"`
	InstructorID int64     `db:"instructor_id" json:"instructor_id,omitempty"` // 0 = no instructor
	FlightTypeID int64     `db:"flight_type_id" json:"flight_type_id"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	Status       string    `db:"status" json:"status"`
	RecurrenceID string    `db:"recurrence_id" json:"recurrence_id,omitempty"`
	Notes        string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FlightType classifies a booking for rate lookup (trial flight, PPL dual,
// hire and fly, ...).
type FlightType struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
