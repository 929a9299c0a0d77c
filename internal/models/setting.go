package models

import "time"

// SchoolSettings holds the single-row school configuration the calculator
// depends on.
type SchoolSettings struct {
	ID             int64     `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	DefaultTaxRate float64   `db:"default_tax_rate" json:"default_tax_rate"`
	Timezone       string    `db:"timezone" json:"timezone"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
