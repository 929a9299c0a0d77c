package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLookup struct {
	byStart map[string]*Availability
	err     error
	calls   int
}

func (f *fakeLookup) AvailabilityForRange(_ context.Context, start, _ time.Time) (*Availability, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.byStart[start.UTC().Format(time.RFC3339)]; ok {
		return a, nil
	}
	return &Availability{}, nil
}

func occurrenceAt(day int) Occurrence {
	start := time.Date(2026, 7, day, 9, 0, 0, 0, time.UTC)
	return Occurrence{Date: start.Format("2006-01-02"), Start: start, End: start.Add(time.Hour)}
}

func TestConflictCheckerAggregatesPerOccurrence(t *testing.T) {
	first := occurrenceAt(1)
	second := occurrenceAt(2)
	third := occurrenceAt(3)

	lookup := &fakeLookup{byStart: map[string]*Availability{
		first.StartISO():  {UnavailableAircraftIDs: []int64{5}},
		second.StartISO(): {UnavailableInstructorIDs: []int64{9}},
	}}
	checker := NewConflictChecker(lookup)

	conflicts, err := checker.Check(context.Background(), []Occurrence{first, second, third}, 5, 9)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if len(conflicts) != 2 {
		t.Fatalf("got %d conflicts, want 2", len(conflicts))
	}
	if c := conflicts[first.StartISO()]; !c.Aircraft || c.Instructor {
		t.Fatalf("first occurrence conflict = %+v, want aircraft only", c)
	}
	if c := conflicts[second.StartISO()]; c.Aircraft || !c.Instructor {
		t.Fatalf("second occurrence conflict = %+v, want instructor only", c)
	}
	if _, ok := conflicts[third.StartISO()]; ok {
		t.Fatal("clear occurrence must not appear in the conflict map")
	}
	if lookup.calls != 3 {
		t.Fatalf("lookup called %d times, want one per occurrence", lookup.calls)
	}
}

func TestConflictCheckerIgnoresUnsetResources(t *testing.T) {
	occ := occurrenceAt(1)
	lookup := &fakeLookup{byStart: map[string]*Availability{
		occ.StartISO(): {UnavailableAircraftIDs: []int64{5}, UnavailableInstructorIDs: []int64{9}},
	}}
	checker := NewConflictChecker(lookup)

	conflicts, err := checker.Check(context.Background(), []Occurrence{occ}, 0, 0)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("no candidate resources means no conflicts, got %+v", conflicts)
	}
}

func TestConflictCheckerPropagatesLookupError(t *testing.T) {
	wantErr := errors.New("availability query failed")
	checker := NewConflictChecker(&fakeLookup{err: wantErr})

	if _, err := checker.Check(context.Background(), []Occurrence{occurrenceAt(1)}, 5, 0); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want lookup error", err)
	}
}

func TestWindowsCover(t *testing.T) {
	windows := []Window{{StartMin: 540, EndMin: 720}, {StartMin: 780, EndMin: 1020}}

	if !WindowsCover(windows, 540, 660) {
		t.Error("range inside the morning window must be covered")
	}
	if WindowsCover(windows, 700, 800) {
		t.Error("range straddling the duty gap must not be covered")
	}
	if WindowsCover(windows, 1000, 1080) {
		t.Error("range running past the afternoon window must not be covered")
	}
}
