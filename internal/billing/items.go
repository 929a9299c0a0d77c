package billing

import "fmt"

// ItemSource marks whether an invoice line was derived from meter billing or
// entered by hand.
type ItemSource string

// Item sources.
const (
	SourceGenerated ItemSource = "generated"
	SourceManual    ItemSource = "manual"
)

// ManualGroup categorises manual fee items.
type ManualGroup string

// Manual fee groups.
const (
	GroupLandingFee ManualGroup = "landing_fee"
	GroupAirwaysFee ManualGroup = "airways_fee"
	GroupOther      ManualGroup = "other"
)

// Stable ids for the generated lines, used by the override and removal maps.
const (
	ItemIDAircraftHire   = "generated-aircraft-hire"
	ItemIDInstructorRate = "generated-instructor-rate"
)

// BuilderItem is one editable line of the draft invoice. Generated items are
// immutable templates (edits live in the draft's override map); manual items
// are mutated in place. UnitPrice is always tax-exclusive.
type BuilderItem struct {
	ID           string      `json:"id"`
	ChargeableID *int64      `json:"chargeable_id,omitempty"`
	Description  string      `json:"description"`
	Note         string      `json:"note,omitempty"`
	Quantity     float64     `json:"quantity"`
	UnitPrice    float64     `json:"unit_price"`
	TaxRate      *float64    `json:"tax_rate,omitempty"`
	Source       ItemSource  `json:"source"`
	ManualGroup  ManualGroup `json:"manual_group,omitempty"`
}

// Valid reports whether the item can be included in a calculation.
func (i BuilderItem) Valid() bool {
	return finite(i.Quantity) && finite(i.UnitPrice) && i.Quantity > 0 && i.UnitPrice >= 0
}

// GeneratedItemsParams carries everything item generation depends on.
type GeneratedItemsParams struct {
	Basis              Basis
	BillingHours       float64
	AircraftRate       float64
	AircraftTaxRate    *float64
	InstructorSelected bool
	InstructorRate     float64
	InstructorTaxRate  *float64
	Instruction        InstructionType
	Split              SplitTimes
}

// GeneratedItems derives the meter-billed invoice lines. It returns nil when
// the preconditions do not hold (no basis, airswitch basis, zero hours or
// zero aircraft rate); the caller treats an empty result as "nothing to
// calculate", not as an error.
//
// Solo time is never billed to the instructor: the instructor line bills the
// dual portion only, and only when an instructor is assigned to a non-solo
// flight with dual time on the clock.
func GeneratedItems(p GeneratedItemsParams) []BuilderItem {
	if p.Basis == BasisNone || p.Basis == BasisAirswitch {
		return nil
	}
	if p.BillingHours <= 0 || p.AircraftRate <= 0 {
		return nil
	}

	note := fmt.Sprintf("%s %.1fh (dual %.1f / solo %.1f)", p.Basis, p.BillingHours, p.Split.Dual, p.Split.Solo)

	items := []BuilderItem{{
		ID:          ItemIDAircraftHire,
		Description: "Aircraft Hire",
		Note:        note,
		Quantity:    p.BillingHours,
		UnitPrice:   p.AircraftRate,
		TaxRate:     p.AircraftTaxRate,
		Source:      SourceGenerated,
	}}

	if p.InstructorSelected && p.Instruction != InstructionSolo && p.Split.Dual > 0 {
		items = append(items, BuilderItem{
			ID:          ItemIDInstructorRate,
			Description: "Instructor Rate",
			Note:        note,
			Quantity:    p.Split.Dual,
			UnitPrice:   p.InstructorRate,
			TaxRate:     p.InstructorTaxRate,
			Source:      SourceGenerated,
		})
	}

	return items
}
