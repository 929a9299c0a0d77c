package scheduling

import (
	"context"
	"time"
)

// Availability lists the resources already booked somewhere inside a time
// range. The overlap definition (half-open interval intersection) is owned by
// the lookup implementation.
type Availability struct {
	UnavailableAircraftIDs   []int64 `json:"unavailable_aircraft_ids"`
	UnavailableInstructorIDs []int64 `json:"unavailable_instructor_ids"`
}

// AvailabilityLookup answers availability queries for an exact time range.
type AvailabilityLookup interface {
	AvailabilityForRange(ctx context.Context, start, end time.Time) (*Availability, error)
}

// Conflict records which of the candidate resources is double-booked for one
// occurrence.
type Conflict struct {
	Occurrence Occurrence `json:"occurrence"`
	Aircraft   bool       `json:"aircraft"`
	Instructor bool       `json:"instructor"`
}

// ConflictChecker aggregates per-occurrence conflicts for a candidate
// aircraft/instructor pair.
type ConflictChecker struct {
	lookup AvailabilityLookup
}

// NewConflictChecker builds a checker over the given lookup.
func NewConflictChecker(lookup AvailabilityLookup) *ConflictChecker {
	return &ConflictChecker{lookup: lookup}
}

// Check queries availability for every occurrence and returns a map keyed by
// occurrence start (ISO-8601 UTC) holding only the conflicting occurrences.
// A non-empty map blocks submission. aircraftID or instructorID of 0 means
// that resource is not part of the booking.
func (c *ConflictChecker) Check(ctx context.Context, occurrences []Occurrence, aircraftID, instructorID int64) (map[string]Conflict, error) {
	conflicts := make(map[string]Conflict)

	for _, occ := range occurrences {
		availability, err := c.lookup.AvailabilityForRange(ctx, occ.Start, occ.End)
		if err != nil {
			return nil, err
		}

		conflict := Conflict{
			Occurrence: occ,
			Aircraft:   aircraftID != 0 && containsID(availability.UnavailableAircraftIDs, aircraftID),
			Instructor: instructorID != 0 && containsID(availability.UnavailableInstructorIDs, instructorID),
		}
		if conflict.Aircraft || conflict.Instructor {
			conflicts[occ.StartISO()] = conflict
		}
	}

	return conflicts, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
