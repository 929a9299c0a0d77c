package scheduling

import "time"

// Window is a half-open availability interval [StartMin, EndMin) in minutes
// from local midnight, as stored on roster rules.
type Window struct {
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

// Covers reports whether the window fully contains [startMin, endMin).
func (w Window) Covers(startMin, endMin int) bool {
	return startMin >= w.StartMin && endMin <= w.EndMin
}

// WindowsCover reports whether any single window fully contains the range.
// Duty periods do not merge: a range straddling two adjacent windows is not
// covered.
func WindowsCover(windows []Window, startMin, endMin int) bool {
	for _, w := range windows {
		if w.Covers(startMin, endMin) {
			return true
		}
	}
	return false
}

// MinutesOfDay converts an instant to minutes from midnight in loc.
func MinutesOfDay(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}
