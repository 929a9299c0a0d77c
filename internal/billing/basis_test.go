package billing

import "testing"

func TestDeriveBasis(t *testing.T) {
	cases := []struct {
		name          string
		rate          *ChargeRate
		want          Basis
		wantAmbiguous bool
	}{
		{"nil rate", nil, BasisNone, false},
		{"no flags", &ChargeRate{}, BasisNone, false},
		{"hobbs only", &ChargeRate{ChargeHobbs: true}, BasisHobbs, false},
		{"tacho only", &ChargeRate{ChargeTacho: true}, BasisTacho, false},
		{"airswitch only", &ChargeRate{ChargeAirswitch: true}, BasisAirswitch, false},
		{"hobbs beats tacho", &ChargeRate{ChargeHobbs: true, ChargeTacho: true}, BasisHobbs, true},
		{"tacho beats airswitch", &ChargeRate{ChargeTacho: true, ChargeAirswitch: true}, BasisTacho, true},
		{"all flags", &ChargeRate{ChargeHobbs: true, ChargeTacho: true, ChargeAirswitch: true}, BasisHobbs, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ambiguous := DeriveBasis(tc.rate)
			if got != tc.want || ambiguous != tc.wantAmbiguous {
				t.Fatalf("DeriveBasis = (%q, %v), want (%q, %v)", got, ambiguous, tc.want, tc.wantAmbiguous)
			}
		})
	}
}
