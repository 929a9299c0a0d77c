package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
)

// Inputs is the full set of billing-relevant check-in inputs. Its Signature
// is the draft's sole staleness test: a draft calculated from one Inputs
// value is stale exactly when the current Inputs hash differently.
type Inputs struct {
	AircraftID   int64
	FlightTypeID int64
	InstructorID int64 // 0 when no instructor is assigned

	Instruction InstructionType
	SoloAtEnd   bool

	HobbsStart *float64
	HobbsEnd   *float64
	TachoStart *float64
	TachoEnd   *float64
	DualEnd    *float64

	Basis          Basis
	AircraftRate   float64
	InstructorRate float64
	TaxRate        float64
}

// Signature returns a canonical content hash of the inputs. Keys are sorted
// and floats formatted with strconv's shortest round-trip form, so the hash
// is stable regardless of construction order.
func (in Inputs) Signature() string {
	fields := map[string]string{
		"aircraft_id":     strconv.FormatInt(in.AircraftID, 10),
		"flight_type_id":  strconv.FormatInt(in.FlightTypeID, 10),
		"instructor_id":   strconv.FormatInt(in.InstructorID, 10),
		"instruction":     string(in.Instruction),
		"solo_at_end":     strconv.FormatBool(in.SoloAtEnd),
		"hobbs_start":     formatReading(in.HobbsStart),
		"hobbs_end":       formatReading(in.HobbsEnd),
		"tacho_start":     formatReading(in.TachoStart),
		"tacho_end":       formatReading(in.TachoEnd),
		"dual_end":        formatReading(in.DualEnd),
		"basis":           string(in.Basis),
		"aircraft_rate":   formatNumber(in.AircraftRate),
		"instructor_rate": formatNumber(in.InstructorRate),
		"tax_rate":        formatNumber(in.TaxRate),
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s;", k, fields[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

func formatReading(v *float64) string {
	if v == nil {
		return "nil"
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
