package billing

import (
	"strings"
	"testing"
)

func baseItemParams() GeneratedItemsParams {
	return GeneratedItemsParams{
		Basis:              BasisHobbs,
		BillingHours:       2.0,
		AircraftRate:       120,
		InstructorSelected: true,
		InstructorRate:     80,
		Instruction:        InstructionDual,
		Split:              SplitTimes{Total: 2.0, Dual: 2.0},
	}
}

func TestGeneratedItemsAircraftAndInstructor(t *testing.T) {
	items := GeneratedItems(baseItemParams())

	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Description != "Aircraft Hire" || items[0].Quantity != 2.0 || items[0].UnitPrice != 120 {
		t.Errorf("aircraft line = %+v", items[0])
	}
	if items[1].Description != "Instructor Rate" || items[1].Quantity != 2.0 || items[1].UnitPrice != 80 {
		t.Errorf("instructor line = %+v", items[1])
	}
	if !strings.Contains(items[0].Note, "hobbs") || !strings.Contains(items[0].Note, "dual 2.0") {
		t.Errorf("audit note must embed basis and split, got %q", items[0].Note)
	}
}

func TestGeneratedItemsSoloNeverBillsInstructor(t *testing.T) {
	p := baseItemParams()
	p.Instruction = InstructionSolo
	p.Split = SplitTimes{Total: 2.0, Solo: 2.0}

	items := GeneratedItems(p)

	if len(items) != 1 {
		t.Fatalf("solo flight must only bill aircraft, got %d items", len(items))
	}
}

func TestGeneratedItemsNoDualTimeSkipsInstructor(t *testing.T) {
	p := baseItemParams()
	p.Split = SplitTimes{Total: 2.0, Solo: 2.0}

	if items := GeneratedItems(p); len(items) != 1 {
		t.Fatalf("zero dual time must skip instructor line, got %d items", len(items))
	}
}

func TestGeneratedItemsPreconditions(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GeneratedItemsParams)
	}{
		{"no basis", func(p *GeneratedItemsParams) { p.Basis = BasisNone }},
		{"airswitch basis", func(p *GeneratedItemsParams) { p.Basis = BasisAirswitch }},
		{"zero hours", func(p *GeneratedItemsParams) { p.BillingHours = 0 }},
		{"zero aircraft rate", func(p *GeneratedItemsParams) { p.AircraftRate = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := baseItemParams()
			tc.mutate(&p)
			if items := GeneratedItems(p); len(items) != 0 {
				t.Fatalf("expected no items, got %d", len(items))
			}
		})
	}
}
