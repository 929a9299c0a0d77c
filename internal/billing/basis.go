package billing

// Basis identifies which aircraft meter a charge rate bills against.
type Basis string

// Known billing bases. BasisNone means no meter flag is configured and no
// invoice can be generated.
const (
	BasisNone      Basis = ""
	BasisHobbs     Basis = "hobbs"
	BasisTacho     Basis = "tacho"
	BasisAirswitch Basis = "airswitch"
)

// ChargeRate is the rate configuration resolved for an aircraft or instructor
// and flight type pair. The meter flags are not mutually exclusive in the
// schema, so basis derivation applies a fixed tie-break.
type ChargeRate struct {
	ID              int64
	RatePerHour     float64
	ChargeHobbs     bool
	ChargeTacho     bool
	ChargeAirswitch bool
}

// DeriveBasis resolves the billing basis for a rate. When more than one meter
// flag is set the priority order is hobbs > tacho > airswitch; ambiguous
// reports that condition so callers can surface a data-entry warning without
// changing billing behaviour.
func DeriveBasis(rate *ChargeRate) (Basis, bool) {
	if rate == nil {
		return BasisNone, false
	}

	set := 0
	for _, flag := range []bool{rate.ChargeHobbs, rate.ChargeTacho, rate.ChargeAirswitch} {
		if flag {
			set++
		}
	}

	switch {
	case rate.ChargeHobbs:
		return BasisHobbs, set > 1
	case rate.ChargeTacho:
		return BasisTacho, set > 1
	case rate.ChargeAirswitch:
		return BasisAirswitch, set > 1
	}
	return BasisNone, false
}
