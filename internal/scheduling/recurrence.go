package scheduling

import "time"

// TimeOfDay is a wall-clock time within a day.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Occurrence is one concrete instance of a (possibly recurring) booking.
// Start and End are absolute instants; Date is the local calendar date the
// occurrence falls on.
type Occurrence struct {
	Date  string    `json:"date"` // YYYY-MM-DD in the school timezone
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartISO is the occurrence's start as an ISO-8601 UTC string, used as the
// conflict map key.
func (o Occurrence) StartISO() string {
	return o.Start.UTC().Format(time.RFC3339)
}

// ExpandOccurrences enumerates every date from startDate through until
// (both inclusive) whose weekday is selected, combining each date with the
// start/end time-of-day in loc.
//
// Dates are iterated at a fixed noon anchor before the wall-clock times are
// applied, so a DST transition can never shift the date and skip or
// duplicate an occurrence. An end time at or before the start time rolls to
// the next day.
func ExpandOccurrences(startDate, until time.Time, weekdays map[time.Weekday]bool, start, end TimeOfDay, loc *time.Location) []Occurrence {
	if loc == nil {
		loc = time.UTC
	}

	var occurrences []Occurrence

	first := startDate.In(loc)
	last := until.In(loc)
	anchor := time.Date(first.Year(), first.Month(), first.Day(), 12, 0, 0, 0, time.UTC)
	lastAnchor := time.Date(last.Year(), last.Month(), last.Day(), 12, 0, 0, 0, time.UTC)

	for ; !anchor.After(lastAnchor); anchor = anchor.Add(24 * time.Hour) {
		if !weekdays[anchor.Weekday()] {
			continue
		}

		year, month, day := anchor.Date()
		occStart := time.Date(year, month, day, start.Hour, start.Minute, 0, 0, loc)
		occEnd := time.Date(year, month, day, end.Hour, end.Minute, 0, 0, loc)
		if !occEnd.After(occStart) {
			occEnd = occEnd.Add(24 * time.Hour)
		}

		occurrences = append(occurrences, Occurrence{
			Date:  occStart.Format("2006-01-02"),
			Start: occStart.UTC(),
			End:   occEnd.UTC(),
		})
	}

	return occurrences
}
