package billing

// InstructionType distinguishes dual (instructor aboard) from solo flights.
type InstructionType string

// Instruction types.
const (
	InstructionDual InstructionType = "dual"
	InstructionSolo InstructionType = "solo"
)

// Split error messages, surfaced verbatim to the user.
const (
	splitErrMissingReadings = "Solo split requires start, dual end, and solo end"
	splitErrDualBeforeStart = "Dual end cannot be less than start"
	splitErrSoloBeforeDual  = "Solo end cannot be less than dual end"
)

// SplitTimes is the dual/solo breakdown of a flight, all values rounded to
// one decimal. Whenever Error is empty, Dual + Solo == Total.
type SplitTimes struct {
	Total float64 `json:"total"`
	Dual  float64 `json:"dual"`
	Solo  float64 `json:"solo"`
	Error string  `json:"error,omitempty"`
}

// ComputeSplit splits flight time between dual and solo.
//
// start and end are the billed meter's readings; dualEnd is the reading taken
// at the instructor handoff when a dual flight finishes with a solo segment.
// Readings are passed as pointers because the form leaves them unset until
// entered. An airswitch basis is unsupported by this calculator and yields a
// zeroed result with no error; callers gate on the basis before billing.
func ComputeSplit(basis Basis, instruction InstructionType, soloAtEnd bool, start, end, dualEnd *float64) SplitTimes {
	if basis == BasisAirswitch {
		return SplitTimes{}
	}

	if instruction == InstructionSolo {
		total := hoursBetween(start, end)
		return SplitTimes{Total: total, Solo: total}
	}

	if !soloAtEnd {
		total := hoursBetween(start, end)
		return SplitTimes{Total: total, Dual: total}
	}

	if start == nil || dualEnd == nil || end == nil {
		return SplitTimes{Error: splitErrMissingReadings}
	}
	if *dualEnd < *start {
		return SplitTimes{Error: splitErrDualBeforeStart}
	}
	if *end < *dualEnd {
		return SplitTimes{Error: splitErrSoloBeforeDual}
	}

	dual := Round1(*dualEnd - *start)
	solo := Round1(*end - *dualEnd)
	return SplitTimes{
		Total: Round1(dual + solo),
		Dual:  dual,
		Solo:  solo,
	}
}

func hoursBetween(start, end *float64) float64 {
	if start == nil || end == nil {
		return 0
	}
	return FlightHours(*start, *end)
}
