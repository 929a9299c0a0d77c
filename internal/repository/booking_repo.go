package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"flightline/internal/models"
)

// ErrBookingNotFound indicates a missing booking.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository handles persistence of bookings and the overlap query
// behind availability checks.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, student_id, aircraft_id, COALESCE(instructor_id, 0), flight_type_id,
	start_time, end_time, status, COALESCE(recurrence_id, ''), COALESCE(notes, ''), created_at, updated_at`

func scanBooking(scan func(dest ...any) error) (*models.Booking, error) {
	var b models.Booking
	err := scan(
		&b.ID,
		&b.StudentID,
		&b.AircraftID,
		&b.InstructorID,
		&b.FlightTypeID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.RecurrenceID,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking.
func (r *BookingRepository) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	const query = `
		INSERT INTO bookings (student_id, aircraft_id, instructor_id, flight_type_id, start_time, end_time, status, recurrence_id, notes, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, 0), $4, $5, $6, $7, NULLIF($8, ''), $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		b.StudentID,
		b.AircraftID,
		b.InstructorID,
		b.FlightTypeID,
		b.StartTime.UTC(),
		b.EndTime.UTC(),
		b.Status,
		b.RecurrenceID,
		b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetByID returns one booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBookingRow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func scanBookingRow(row *sql.Row) (*models.Booking, error) {
	return scanBooking(row.Scan)
}

// ListByRange returns non-cancelled bookings intersecting [start, end).
func (r *BookingRepository) ListByRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status <> 'cancelled' AND start_time < $2 AND end_time > $1
		ORDER BY start_time
	`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows.Scan)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// UnavailableResources returns the aircraft and instructor ids that already
// hold a non-cancelled booking overlapping [start, end). Intervals are
// half-open, so back-to-back bookings do not collide.
func (r *BookingRepository) UnavailableResources(ctx context.Context, start, end time.Time) ([]int64, []int64, error) {
	const query = `
		SELECT aircraft_id, COALESCE(instructor_id, 0)
		FROM bookings
		WHERE status <> 'cancelled' AND start_time < $2 AND end_time > $1
	`
	rows, err := r.db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var aircraftIDs, instructorIDs []int64
	seenAircraft := map[int64]bool{}
	seenInstructor := map[int64]bool{}
	for rows.Next() {
		var aircraftID, instructorID int64
		if err := rows.Scan(&aircraftID, &instructorID); err != nil {
			return nil, nil, err
		}
		if aircraftID != 0 && !seenAircraft[aircraftID] {
			seenAircraft[aircraftID] = true
			aircraftIDs = append(aircraftIDs, aircraftID)
		}
		if instructorID != 0 && !seenInstructor[instructorID] {
			seenInstructor[instructorID] = true
			instructorIDs = append(instructorIDs, instructorID)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return aircraftIDs, instructorIDs, nil
}

// UpdateStatus transitions a booking's status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	const query = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
