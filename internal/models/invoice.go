package models

import "time"

// Invoice statuses.
const (
	InvoiceStatusApproved  = "approved"
	InvoiceStatusCorrected = "corrected"
)

// Invoice is the committed result of a check-in approval.
type Invoice struct {
	ID        int64     `db:"id" json:"id"`
	Number    string    `db:"number" json:"number"`
	BookingID int64     `db:"booking_id" json:"booking_id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	Subtotal  float64   `db:"subtotal" json:"subtotal"`
	Tax       float64   `db:"tax" json:"tax"`
	Total     float64   `db:"total" json:"total"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// InvoiceItem is one committed invoice line. Unit prices are tax-exclusive
// with 2-decimal rounding already applied.
type InvoiceItem struct {
	ID           int64   `db:"id" json:"id"`
	InvoiceID    int64   `db:"invoice_id" json:"invoice_id"`
	ChargeableID *int64  `db:"chargeable_id" json:"chargeable_id,omitempty"`
	Description  string  `db:"description" json:"description"`
	Note         string  `db:"note" json:"note,omitempty"`
	Quantity     float64 `db:"quantity" json:"quantity"`
	UnitPrice    float64 `db:"unit_price" json:"unit_price"`
	TaxRate      float64 `db:"tax_rate" json:"tax_rate"`
	Amount       float64 `db:"amount" json:"amount"`
	TaxAmount    float64 `db:"tax_amount" json:"tax_amount"`
	LineTotal    float64 `db:"line_total" json:"line_total"`
	Source       string  `db:"source" json:"source"`
}

// CheckIn stores the meter readings and split a booking was invoiced from,
// plus the correction audit trail.
type CheckIn struct {
	ID               int64      `db:"id" json:"id"`
	BookingID        int64      `db:"booking_id" json:"booking_id"`
	InvoiceID        int64      `db:"invoice_id" json:"invoice_id"`
	BillingBasis     string     `db:"billing_basis" json:"billing_basis"`
	BillingHours     float64    `db:"billing_hours" json:"billing_hours"`
	DualTime         float64    `db:"dual_time" json:"dual_time"`
	SoloTime         float64    `db:"solo_time" json:"solo_time"`
	HobbsStart       *float64   `db:"hobbs_start" json:"hobbs_start,omitempty"`
	HobbsEnd         *float64   `db:"hobbs_end" json:"hobbs_end,omitempty"`
	TachoStart       *float64   `db:"tacho_start" json:"tacho_start,omitempty"`
	TachoEnd         *float64   `db:"tacho_end" json:"tacho_end,omitempty"`
	CorrectionReason string     `db:"correction_reason" json:"correction_reason,omitempty"`
	CorrectedAt      *time.Time `db:"corrected_at" json:"corrected_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}
