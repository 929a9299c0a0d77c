package service

import (
	"context"
	"time"

	"flightline/internal/billing"
	"flightline/internal/models"
	"flightline/internal/repository"
)

// BookingStore is the booking persistence the services depend on.
type BookingStore interface {
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	Create(ctx context.Context, b *models.Booking) (*models.Booking, error)
	ListByRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	UnavailableResources(ctx context.Context, start, end time.Time) ([]int64, []int64, error)
}

// RateStore resolves charge rates per (resource, flight type) pair.
type RateStore interface {
	Lookup(ctx context.Context, resourceKind string, resourceID, flightTypeID int64) (*models.ChargeRate, error)
}

// SettingsStore reads the school configuration row.
type SettingsStore interface {
	Get(ctx context.Context) (*models.SchoolSettings, error)
}

// InstructorStore lists instructors and their duty windows.
type InstructorStore interface {
	List(ctx context.Context) ([]models.Instructor, error)
	RosterRules(ctx context.Context, instructorID int64, weekday int) ([]models.RosterRule, error)
}

// InvoiceStore owns the atomic approval and correction procedures.
type InvoiceStore interface {
	ApproveCheckIn(ctx context.Context, p repository.ApproveParams) (*models.Invoice, error)
	CorrectCheckIn(ctx context.Context, p repository.CorrectionParams) error
	GetCheckIn(ctx context.Context, bookingID int64) (*models.CheckIn, error)
}

// DraftCache stores the in-progress check-in draft per booking.
type DraftCache interface {
	Save(ctx context.Context, bookingID int64, draft *billing.Draft) error
	Get(ctx context.Context, bookingID int64) (*billing.Draft, error)
	Delete(ctx context.Context, bookingID int64) error
}

// ValidationError marks user-correctable input problems; handlers surface
// the message verbatim with a 4xx status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(message string) error {
	return &ValidationError{Message: message}
}
