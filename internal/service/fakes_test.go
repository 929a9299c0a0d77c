package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flightline/internal/billing"
	"flightline/internal/models"
	redisstore "flightline/internal/redis"
	"flightline/internal/repository"
)

type fakeBookings struct {
	byID map[int64]*models.Booking

	created   []*models.Booking
	createErr error
	failAt    int // fail the nth Create call (1-based), 0 = never

	busyAircraft   []int64
	busyInstructor []int64
}

func (f *fakeBookings) GetByID(_ context.Context, id int64) (*models.Booking, error) {
	if b, ok := f.byID[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, repository.ErrBookingNotFound
}

func (f *fakeBookings) Create(_ context.Context, b *models.Booking) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return nil, fmt.Errorf("insert failed")
	}
	copy := *b
	copy.ID = int64(len(f.created) + 1)
	f.created = append(f.created, &copy)
	return &copy, nil
}

func (f *fakeBookings) ListByRange(_ context.Context, start, end time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.byID {
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) UnavailableResources(_ context.Context, _, _ time.Time) ([]int64, []int64, error) {
	return f.busyAircraft, f.busyInstructor, nil
}

type rateKey struct {
	kind         string
	resourceID   int64
	flightTypeID int64
}

type fakeRates struct {
	rates map[rateKey]*models.ChargeRate
}

func (f *fakeRates) Lookup(_ context.Context, kind string, resourceID, flightTypeID int64) (*models.ChargeRate, error) {
	if rate, ok := f.rates[rateKey{kind, resourceID, flightTypeID}]; ok {
		copy := *rate
		return &copy, nil
	}
	return nil, repository.ErrChargeRateNotFound
}

type fakeSettings struct {
	settings *models.SchoolSettings
}

func (f *fakeSettings) Get(_ context.Context) (*models.SchoolSettings, error) {
	if f.settings == nil {
		return nil, repository.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeInvoices struct {
	approveParams *repository.ApproveParams
	approveErr    error
	nextInvoiceID int64

	checkIn       *models.CheckIn
	correction    *repository.CorrectionParams
	correctionErr error
}

func (f *fakeInvoices) ApproveCheckIn(_ context.Context, p repository.ApproveParams) (*models.Invoice, error) {
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	f.approveParams = &p
	id := f.nextInvoiceID
	if id == 0 {
		id = 101
	}
	return &models.Invoice{
		ID:        id,
		Number:    p.Number,
		BookingID: p.Booking.ID,
		StudentID: p.Booking.StudentID,
		Subtotal:  p.Subtotal,
		Tax:       p.Tax,
		Total:     p.Total,
		Status:    models.InvoiceStatusApproved,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeInvoices) CorrectCheckIn(_ context.Context, p repository.CorrectionParams) error {
	if f.correctionErr != nil {
		return f.correctionErr
	}
	f.correction = &p
	return nil
}

func (f *fakeInvoices) GetCheckIn(_ context.Context, bookingID int64) (*models.CheckIn, error) {
	if f.checkIn != nil && f.checkIn.BookingID == bookingID {
		copy := *f.checkIn
		return &copy, nil
	}
	return nil, repository.ErrCheckInNotFound
}

type fakeDrafts struct {
	drafts  map[int64]*billing.Draft
	saveErr error
}

func newFakeDrafts() *fakeDrafts {
	return &fakeDrafts{drafts: map[int64]*billing.Draft{}}
}

func (f *fakeDrafts) Save(_ context.Context, bookingID int64, draft *billing.Draft) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	copy := *draft
	f.drafts[bookingID] = &copy
	return nil
}

func (f *fakeDrafts) Get(_ context.Context, bookingID int64) (*billing.Draft, error) {
	if draft, ok := f.drafts[bookingID]; ok {
		copy := *draft
		return &copy, nil
	}
	return nil, redisstore.ErrDraftNotFound
}

func (f *fakeDrafts) Delete(_ context.Context, bookingID int64) error {
	delete(f.drafts, bookingID)
	return nil
}

type fakeInstructors struct {
	instructors []models.Instructor
	rules       map[int64][]models.RosterRule // keyed by instructor id
}

func (f *fakeInstructors) List(_ context.Context) ([]models.Instructor, error) {
	return f.instructors, nil
}

func (f *fakeInstructors) RosterRules(_ context.Context, instructorID int64, weekday int) ([]models.RosterRule, error) {
	var out []models.RosterRule
	for _, rule := range f.rules[instructorID] {
		if rule.Weekday == weekday {
			out = append(out, rule)
		}
	}
	return out, nil
}

var errLookupDown = errors.New("availability lookup unavailable")
