package scheduling

import "time"

// Layout positions a booking on a timeline as percentages of the visible
// window, enabling resolution-independent absolute placement.
type Layout struct {
	LeftPct  float64 `json:"left_pct"`
	WidthPct float64 `json:"width_pct"`
}

// BookingLayout clips a booking to the timeline window [tlStart, tlEnd) and
// expresses the clipped interval as left offset and width percentages.
// Returns nil when the booking does not intersect the window at all;
// bookings that start before or end after the window are clipped, not
// rejected.
func BookingLayout(bookingStart, bookingEnd, tlStart, tlEnd time.Time) *Layout {
	total := tlEnd.Sub(tlStart)
	if total <= 0 {
		return nil
	}
	if !bookingStart.Before(tlEnd) || !bookingEnd.After(tlStart) {
		return nil
	}

	start := bookingStart
	if start.Before(tlStart) {
		start = tlStart
	}
	end := bookingEnd
	if end.After(tlEnd) {
		end = tlEnd
	}

	return &Layout{
		LeftPct:  float64(start.Sub(tlStart)) / float64(total) * 100,
		WidthPct: float64(end.Sub(start)) / float64(total) * 100,
	}
}
