package billing

// FlightHours derives billable hours from a meter reading pair. It returns 0
// unless both readings are finite and end >= start, so transient invalid
// states during editing never raise an error or produce a negative value.
func FlightHours(start, end float64) float64 {
	if !finite(start) || !finite(end) {
		return 0
	}
	if end < start {
		return 0
	}
	return Round1(end - start)
}
