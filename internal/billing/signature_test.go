package billing

import "testing"

func sampleInputs() Inputs {
	return Inputs{
		AircraftID:   7,
		FlightTypeID: 2,
		InstructorID: 11,
		Instruction:  InstructionDual,
		HobbsStart:   fptr(100.0),
		HobbsEnd:     fptr(102.0),
		Basis:        BasisHobbs,
		AircraftRate: 120,
		TaxRate:      0.15,
	}
}

func TestSignatureIsDeterministic(t *testing.T) {
	a := sampleInputs()
	b := sampleInputs()

	if a.Signature() != b.Signature() {
		t.Fatal("identical inputs must produce identical signatures")
	}
}

func TestSignatureTracksEveryField(t *testing.T) {
	mutations := map[string]func(*Inputs){
		"aircraft":        func(in *Inputs) { in.AircraftID = 8 },
		"flight type":     func(in *Inputs) { in.FlightTypeID = 3 },
		"instructor":      func(in *Inputs) { in.InstructorID = 0 },
		"instruction":     func(in *Inputs) { in.Instruction = InstructionSolo },
		"solo at end":     func(in *Inputs) { in.SoloAtEnd = true },
		"hobbs end":       func(in *Inputs) { in.HobbsEnd = fptr(102.5) },
		"hobbs cleared":   func(in *Inputs) { in.HobbsEnd = nil },
		"tacho start":     func(in *Inputs) { in.TachoStart = fptr(1.0) },
		"dual end":        func(in *Inputs) { in.DualEnd = fptr(101.0) },
		"basis":           func(in *Inputs) { in.Basis = BasisTacho },
		"aircraft rate":   func(in *Inputs) { in.AircraftRate = 121 },
		"instructor rate": func(in *Inputs) { in.InstructorRate = 80 },
		"tax rate":        func(in *Inputs) { in.TaxRate = 0.1 },
	}

	base := sampleInputs().Signature()
	for name, mutate := range mutations {
		in := sampleInputs()
		mutate(&in)
		if in.Signature() == base {
			t.Errorf("changing %s did not change the signature", name)
		}
	}
}

func TestSignatureDistinguishesNilFromZero(t *testing.T) {
	a := sampleInputs()
	a.TachoStart = nil
	b := sampleInputs()
	b.TachoStart = fptr(0)

	if a.Signature() == b.Signature() {
		t.Fatal("a missing reading and a zero reading must hash differently")
	}
}
