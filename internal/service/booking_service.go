package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flightline/internal/models"
	"flightline/internal/scheduling"
)

// ConflictError reports which occurrences collide with existing bookings.
// The map is keyed by occurrence start (ISO-8601 UTC).
type ConflictError struct {
	Conflicts map[string]scheduling.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("resource unavailable for %d occurrence(s)", len(e.Conflicts))
}

// BookingService creates single and recurring bookings behind the conflict
// checker.
type BookingService struct {
	bookings BookingStore
	checker  *scheduling.ConflictChecker
	loc      *time.Location
	logger   *zap.Logger
}

// NewBookingService builds service.
func NewBookingService(bookings BookingStore, lookup scheduling.AvailabilityLookup, loc *time.Location, logger *zap.Logger) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		bookings: bookings,
		checker:  scheduling.NewConflictChecker(lookup),
		loc:      loc,
		logger:   logger,
	}
}

// Get returns one booking.
func (s *BookingService) Get(ctx context.Context, id int64) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

// BookingInput is the common creation payload.
type BookingInput struct {
	StudentID    int64  `json:"student_id"`
	AircraftID   int64  `json:"aircraft_id"`
	InstructorID int64  `json:"instructor_id,omitempty"`
	FlightTypeID int64  `json:"flight_type_id"`
	Notes        string `json:"notes,omitempty"`
}

// Create creates one booking after a conflict check on its exact range.
func (s *BookingService) Create(ctx context.Context, input BookingInput, start, end time.Time) (*models.Booking, error) {
	if !end.After(start) {
		return nil, validationErrorf("booking end must be after start")
	}
	if input.AircraftID == 0 {
		return nil, validationErrorf("booking requires an aircraft")
	}

	occ := scheduling.Occurrence{
		Date:  start.In(s.loc).Format("2006-01-02"),
		Start: start.UTC(),
		End:   end.UTC(),
	}
	conflicts, err := s.checker.Check(ctx, []scheduling.Occurrence{occ}, input.AircraftID, input.InstructorID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	booking := &models.Booking{
		StudentID:    input.StudentID,
		AircraftID:   input.AircraftID,
		InstructorID: input.InstructorID,
		FlightTypeID: input.FlightTypeID,
		StartTime:    start.UTC(),
		EndTime:      end.UTC(),
		Status:       models.BookingStatusScheduled,
		Notes:        input.Notes,
	}
	booking, err = s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("aircraft_id", booking.AircraftID),
		zap.Time("start", booking.StartTime),
	)
	return booking, nil
}

// RecurringInput describes a weekly repeating booking.
type RecurringInput struct {
	BookingInput

	StartDate time.Time            `json:"start_date"`
	Until     time.Time            `json:"until"`    // inclusive
	Weekdays  []int                `json:"weekdays"` // 0=Sunday .. 6=Saturday
	StartTime scheduling.TimeOfDay `json:"start_time"`
	EndTime   scheduling.TimeOfDay `json:"end_time"`
}

// FailedOccurrence records one occurrence whose creation call failed.
type FailedOccurrence struct {
	Occurrence scheduling.Occurrence `json:"occurrence"`
	Error      string                `json:"error"`
}

// RecurringResult is the batch outcome: which occurrences were created and
// which failed. Creation stops at the first failure; prior successes are not
// rolled back and are reported rather than hidden.
type RecurringResult struct {
	RecurrenceID string                  `json:"recurrence_id"`
	Created      []models.Booking        `json:"created"`
	Failed       []FailedOccurrence      `json:"failed,omitempty"`
	Occurrences  []scheduling.Occurrence `json:"occurrences"`
}

// CreateRecurring expands the recurrence, blocks on any conflict, then
// creates the occurrences sequentially under a shared recurrence id.
func (s *BookingService) CreateRecurring(ctx context.Context, input RecurringInput) (*RecurringResult, error) {
	if input.AircraftID == 0 {
		return nil, validationErrorf("booking requires an aircraft")
	}

	weekdays := make(map[time.Weekday]bool, len(input.Weekdays))
	for _, d := range input.Weekdays {
		if d < 0 || d > 6 {
			return nil, validationErrorf("weekday values must be 0 (Sunday) through 6 (Saturday)")
		}
		weekdays[time.Weekday(d)] = true
	}
	if len(weekdays) == 0 {
		return nil, validationErrorf("select at least one weekday")
	}

	occurrences := scheduling.ExpandOccurrences(input.StartDate, input.Until, weekdays, input.StartTime, input.EndTime, s.loc)
	if len(occurrences) == 0 {
		return nil, validationErrorf("recurrence produces no occurrences in the selected range")
	}

	conflicts, err := s.checker.Check(ctx, occurrences, input.AircraftID, input.InstructorID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	result := &RecurringResult{
		RecurrenceID: uuid.NewString(),
		Occurrences:  occurrences,
	}
	for _, occ := range occurrences {
		booking := &models.Booking{
			StudentID:    input.StudentID,
			AircraftID:   input.AircraftID,
			InstructorID: input.InstructorID,
			FlightTypeID: input.FlightTypeID,
			StartTime:    occ.Start,
			EndTime:      occ.End,
			Status:       models.BookingStatusScheduled,
			RecurrenceID: result.RecurrenceID,
			Notes:        input.Notes,
		}
		created, err := s.bookings.Create(ctx, booking)
		if err != nil {
			// Stop at the first failure and report it alongside the
			// occurrences already created; nothing is rolled back.
			result.Failed = append(result.Failed, FailedOccurrence{Occurrence: occ, Error: err.Error()})
			s.logger.Error("recurring booking creation stopped",
				zap.String("recurrence_id", result.RecurrenceID),
				zap.String("occurrence", occ.StartISO()),
				zap.Int("created_so_far", len(result.Created)),
				zap.Error(err),
			)
			return result, nil
		}
		result.Created = append(result.Created, *created)
	}

	s.logger.Info("recurring bookings created",
		zap.String("recurrence_id", result.RecurrenceID),
		zap.Int("count", len(result.Created)),
	)
	return result, nil
}

// ListRange returns bookings intersecting the window together with their
// timeline layout percentages.
func (s *BookingService) ListRange(ctx context.Context, start, end time.Time) ([]BookingWithLayout, error) {
	bookings, err := s.bookings.ListByRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]BookingWithLayout, 0, len(bookings))
	for _, b := range bookings {
		entries = append(entries, BookingWithLayout{
			Booking: b,
			Layout:  scheduling.BookingLayout(b.StartTime, b.EndTime, start, end),
		})
	}
	return entries, nil
}

// BookingWithLayout pairs a booking with its position on the requested
// timeline window.
type BookingWithLayout struct {
	models.Booking
	Layout *scheduling.Layout `json:"layout,omitempty"`
}
