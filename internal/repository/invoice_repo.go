package repository

import (
	"context"
	"database/sql"
	"errors"

	"flightline/internal/models"
)

// Invoice repository errors.
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrCheckInNotFound = errors.New("check-in not found")
	// ErrBookingAlreadyInvoiced is returned when a second approval races a
	// committed one; the partial unique index on check_ins enforces it.
	ErrBookingAlreadyInvoiced = errors.New("booking already invoiced")
)

// InvoiceRepository owns committed invoices and the atomic check-in
// approval/correction procedures.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository returns repository.
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// ApproveParams is the full frozen payload of a check-in approval.
type ApproveParams struct {
	Booking *models.Booking
	Number  string

	BillingBasis string
	BillingHours float64
	DualTime     float64
	SoloTime     float64
	HobbsStart   *float64
	HobbsEnd     *float64
	TachoStart   *float64
	TachoEnd     *float64

	Subtotal float64
	Tax      float64
	Total    float64
	Items    []models.InvoiceItem
}

// ApproveCheckIn creates the invoice, its items and the check-in row, flips
// the booking to invoiced and rolls the aircraft meters forward, all in one
// transaction. At most one approval can succeed per booking: a concurrent
// second approval fails on the check_ins unique booking constraint.
func (r *InvoiceRepository) ApproveCheckIn(ctx context.Context, p ApproveParams) (*models.Invoice, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	invoice := &models.Invoice{
		Number:    p.Number,
		BookingID: p.Booking.ID,
		StudentID: p.Booking.StudentID,
		Subtotal:  p.Subtotal,
		Tax:       p.Tax,
		Total:     p.Total,
		Status:    models.InvoiceStatusApproved,
	}

	const insertInvoice = `
		INSERT INTO invoices (number, booking_id, student_id, subtotal, tax, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, insertInvoice,
		invoice.Number,
		invoice.BookingID,
		invoice.StudentID,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		invoice.Status,
	).Scan(&invoice.ID, &invoice.CreatedAt)
	if err != nil {
		return nil, err
	}

	const insertItem = `
		INSERT INTO invoice_items (invoice_id, chargeable_id, description, note, quantity, unit_price, tax_rate, amount, tax_amount, line_total, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for _, item := range p.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			invoice.ID,
			item.ChargeableID,
			item.Description,
			item.Note,
			item.Quantity,
			item.UnitPrice,
			item.TaxRate,
			item.Amount,
			item.TaxAmount,
			item.LineTotal,
			item.Source,
		); err != nil {
			return nil, err
		}
	}

	const insertCheckIn = `
		INSERT INTO check_ins (booking_id, invoice_id, billing_basis, billing_hours, dual_time, solo_time,
		                       hobbs_start, hobbs_end, tacho_start, tacho_end, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	`
	if _, err := tx.ExecContext(ctx, insertCheckIn,
		p.Booking.ID,
		invoice.ID,
		p.BillingBasis,
		p.BillingHours,
		p.DualTime,
		p.SoloTime,
		p.HobbsStart,
		p.HobbsEnd,
		p.TachoStart,
		p.TachoEnd,
	); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBookingAlreadyInvoiced
		}
		return nil, err
	}

	const updateBooking = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateBooking, p.Booking.ID, models.BookingStatusInvoiced); err != nil {
		return nil, err
	}

	const updateMeters = `
		UPDATE aircraft
		SET hobbs_meter = COALESCE($2, hobbs_meter),
		    tacho_meter = COALESCE($3, tacho_meter),
		    updated_at = NOW()
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, updateMeters, p.Booking.AircraftID, p.HobbsEnd, p.TachoEnd); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return invoice, nil
}

// CorrectionParams carries a post-approval meter correction.
type CorrectionParams struct {
	BookingID    int64
	HobbsEnd     *float64
	TachoEnd     *float64
	BillingHours float64
	Reason       string
}

// CorrectCheckIn updates the stored end readings and recomputed hours on an
// approved check-in, records the reason, and marks the invoice corrected.
func (r *InvoiceRepository) CorrectCheckIn(ctx context.Context, p CorrectionParams) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const updateCheckIn = `
		UPDATE check_ins
		SET hobbs_end = COALESCE($2, hobbs_end),
		    tacho_end = COALESCE($3, tacho_end),
		    billing_hours = $4,
		    correction_reason = $5,
		    corrected_at = NOW()
		WHERE booking_id = $1
		RETURNING invoice_id
	`
	var invoiceID int64
	err = tx.QueryRowContext(ctx, updateCheckIn, p.BookingID, p.HobbsEnd, p.TachoEnd, p.BillingHours, p.Reason).Scan(&invoiceID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrCheckInNotFound
	}
	if err != nil {
		return err
	}

	const updateInvoice = `UPDATE invoices SET status = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateInvoice, invoiceID, models.InvoiceStatusCorrected); err != nil {
		return err
	}

	return tx.Commit()
}

// GetCheckIn returns the check-in row for a booking.
func (r *InvoiceRepository) GetCheckIn(ctx context.Context, bookingID int64) (*models.CheckIn, error) {
	const query = `
		SELECT id, booking_id, invoice_id, billing_basis, billing_hours, dual_time, solo_time,
		       hobbs_start, hobbs_end, tacho_start, tacho_end,
		       COALESCE(correction_reason, ''), corrected_at, created_at
		FROM check_ins
		WHERE booking_id = $1
	`
	var c models.CheckIn
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&c.ID,
		&c.BookingID,
		&c.InvoiceID,
		&c.BillingBasis,
		&c.BillingHours,
		&c.DualTime,
		&c.SoloTime,
		&c.HobbsStart,
		&c.HobbsEnd,
		&c.TachoStart,
		&c.TachoEnd,
		&c.CorrectionReason,
		&c.CorrectedAt,
		&c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCheckInNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID returns an invoice with its items.
func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, []models.InvoiceItem, error) {
	const query = `
		SELECT id, number, booking_id, student_id, subtotal, tax, total, status, created_at
		FROM invoices
		WHERE id = $1
	`
	var inv models.Invoice
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inv.ID,
		&inv.Number,
		&inv.BookingID,
		&inv.StudentID,
		&inv.Subtotal,
		&inv.Tax,
		&inv.Total,
		&inv.Status,
		&inv.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	const itemsQuery = `
		SELECT id, invoice_id, chargeable_id, description, COALESCE(note, ''), quantity, unit_price, tax_rate, amount, tax_amount, line_total, source
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []models.InvoiceItem
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ChargeableID,
			&item.Description,
			&item.Note,
			&item.Quantity,
			&item.UnitPrice,
			&item.TaxRate,
			&item.Amount,
			&item.TaxAmount,
			&item.LineTotal,
			&item.Source,
		); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return &inv, items, nil
}

// isUniqueViolation reports whether err carries SQLSTATE 23505
// (unique_violation). pgx error values expose SQLState().
func isUniqueViolation(err error) bool {
	type sqlStater interface{ SQLState() string }
	var state sqlStater
	if errors.As(err, &state) {
		return state.SQLState() == "23505"
	}
	return false
}
