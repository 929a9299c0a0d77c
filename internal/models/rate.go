package models

import "time"

// Charge rate resource kinds.
const (
	RateResourceAircraft   = "aircraft"
	RateResourceInstructor = "instructor"
)

// ChargeRate is the hourly rate configured for an aircraft or instructor and
// flight type pair. The three meter flags are not mutually exclusive in the
// schema; the billing calculator derives a single basis with a documented
// tie-break.
type ChargeRate struct {
	ID              int64     `db:"id" json:"id"`
	ResourceKind    string    `db:"resource_kind" json:"resource_kind"`
	ResourceID      int64     `db:"resource_id" json:"resource_id"`
	FlightTypeID    int64     `db:"flight_type_id" json:"flight_type_id"`
	RatePerHour     float64   `db:"rate_per_hour" json:"rate_per_hour"`
	ChargeHobbs     bool      `db:"charge_hobbs" json:"charge_hobbs"`
	ChargeTacho     bool      `db:"charge_tacho" json:"charge_tacho"`
	ChargeAirswitch bool      `db:"charge_airswitch" json:"charge_airswitch"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Chargeable is a billable catalog fee independent of flight-hour billing.
type Chargeable struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Group     string    `db:"fee_group" json:"group"` // landing_fee | airways_fee | other
	UnitPrice float64   `db:"unit_price" json:"unit_price"`
	TaxRate   *float64  `db:"tax_rate" json:"tax_rate,omitempty"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
