package service

import (
	"context"
	"time"

	"flightline/internal/scheduling"
)

// AvailabilityService answers "who is already taken" for an exact time
// range: any resource with an overlapping non-cancelled booking, plus any
// instructor whose roster has no duty window covering the range. It is the
// scheduling.AvailabilityLookup used by the conflict checker.
type AvailabilityService struct {
	bookings    BookingStore
	instructors InstructorStore
	loc         *time.Location
}

// NewAvailabilityService builds service.
func NewAvailabilityService(bookings BookingStore, instructors InstructorStore, loc *time.Location) *AvailabilityService {
	if loc == nil {
		loc = time.UTC
	}
	return &AvailabilityService{bookings: bookings, instructors: instructors, loc: loc}
}

// AvailabilityForRange implements scheduling.AvailabilityLookup over the
// booking overlap query and the roster rules.
func (s *AvailabilityService) AvailabilityForRange(ctx context.Context, start, end time.Time) (*scheduling.Availability, error) {
	aircraftIDs, instructorIDs, err := s.bookings.UnavailableResources(ctx, start, end)
	if err != nil {
		return nil, err
	}

	availability := &scheduling.Availability{
		UnavailableAircraftIDs:   aircraftIDs,
		UnavailableInstructorIDs: instructorIDs,
	}

	offDuty, err := s.offDutyInstructors(ctx, start, end, availability.UnavailableInstructorIDs)
	if err != nil {
		return nil, err
	}
	availability.UnavailableInstructorIDs = append(availability.UnavailableInstructorIDs, offDuty...)

	return availability, nil
}

// offDutyInstructors lists instructors with no single duty window covering
// [start, end) on the local weekday. Already-unavailable ids are skipped.
func (s *AvailabilityService) offDutyInstructors(ctx context.Context, start, end time.Time, alreadyUnavailable []int64) ([]int64, error) {
	instructors, err := s.instructors.List(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]bool, len(alreadyUnavailable))
	for _, id := range alreadyUnavailable {
		taken[id] = true
	}

	local := start.In(s.loc)
	weekday := int(local.Weekday())
	startMin := scheduling.MinutesOfDay(start, s.loc)
	endMin := startMin + int(end.Sub(start).Minutes())

	var offDuty []int64
	for _, instructor := range instructors {
		if taken[instructor.ID] {
			continue
		}
		rules, err := s.instructors.RosterRules(ctx, instructor.ID, weekday)
		if err != nil {
			return nil, err
		}
		windows := make([]scheduling.Window, 0, len(rules))
		for _, rule := range rules {
			windows = append(windows, scheduling.Window{StartMin: rule.StartMin, EndMin: rule.EndMin})
		}
		if !scheduling.WindowsCover(windows, startMin, endMin) {
			offDuty = append(offDuty, instructor.ID)
		}
	}
	return offDuty, nil
}
