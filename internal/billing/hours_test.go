package billing

import (
	"math"
	"testing"
)

func TestFlightHours(t *testing.T) {
	cases := []struct {
		name  string
		start float64
		end   float64
		want  float64
	}{
		{"simple difference", 100.0, 102.0, 2.0},
		{"rounds to one decimal", 50.0, 51.25, 1.3},
		// 51.55-50 is 1.5499999999999972 in float64, so the half-up tick
		// never fires; readings entered in tenths are unaffected.
		{"binary representation drift rounds down", 50.0, 51.55, 1.5},
		{"zero duration", 75.3, 75.3, 0},
		{"end before start", 102.0, 100.0, 0},
		{"nan start", math.NaN(), 10, 0},
		{"nan end", 10, math.NaN(), 0},
		{"infinite end", 10, math.Inf(1), 0},
		{"negative readings still ordered", -5.0, -3.5, 1.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FlightHours(tc.start, tc.end)
			if got != tc.want {
				t.Fatalf("FlightHours(%v, %v) = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}
}
