package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flightline/internal/billing"
	"flightline/internal/models"
	redisstore "flightline/internal/redis"
	"flightline/internal/repository"
)

// Check-in errors surfaced to the user.
var (
	ErrNoChargeRate         = errors.New("no charge rate configured for this aircraft and flight type")
	ErrNoChargeBasis        = errors.New("charge rate has no billing basis configured")
	ErrAirswitchUnsupported = errors.New("airswitch billing is not supported for check-in")
	ErrNoDraft              = errors.New("no calculation exists for this booking, calculate first")
)

// CheckInService orchestrates the billing calculator: it resolves rates and
// readings into a draft invoice, guards approval behind the staleness check,
// and hands the frozen payload to the atomic approval procedure.
type CheckInService struct {
	bookings BookingStore
	rates    RateStore
	settings SettingsStore
	invoices InvoiceStore
	drafts   DraftCache

	fallbackTaxRate float64
	logger          *zap.Logger
}

// NewCheckInService builds service. fallbackTaxRate applies when no school
// settings row exists yet.
func NewCheckInService(
	bookings BookingStore,
	rates RateStore,
	settings SettingsStore,
	invoices InvoiceStore,
	drafts DraftCache,
	fallbackTaxRate float64,
	logger *zap.Logger,
) *CheckInService {
	return &CheckInService{
		bookings:        bookings,
		rates:           rates,
		settings:        settings,
		invoices:        invoices,
		drafts:          drafts,
		fallbackTaxRate: fallbackTaxRate,
		logger:          logger,
	}
}

// CheckInInput is the raw check-in form state. Meter readings are pointers
// because the form leaves them unset until entered.
type CheckInInput struct {
	BookingID int64 `json:"booking_id"`

	HobbsStart *float64 `json:"hobbs_start,omitempty"`
	HobbsEnd   *float64 `json:"hobbs_end,omitempty"`
	TachoStart *float64 `json:"tacho_start,omitempty"`
	TachoEnd   *float64 `json:"tacho_end,omitempty"`
	DualEnd    *float64 `json:"dual_end,omitempty"`

	Instruction billing.InstructionType `json:"instruction"`
	SoloAtEnd   bool                    `json:"solo_at_end"`
}

// DraftView is the calculated draft as presented to the UI.
type DraftView struct {
	BookingID    int64                    `json:"booking_id"`
	State        billing.DraftState       `json:"state"`
	Basis        billing.Basis            `json:"basis"`
	BillingHours float64                  `json:"billing_hours"`
	Split        billing.SplitTimes       `json:"split"`
	TaxRate      float64                  `json:"tax_rate"`
	Items        []billing.BuilderItem    `json:"items"`
	Lines        []billing.CalculatedLine `json:"lines"`
	Totals       billing.Totals           `json:"totals"`
	Warnings     []string                 `json:"warnings,omitempty"`
	InvoiceID    int64                    `json:"invoice_id,omitempty"`
	CalculatedAt time.Time                `json:"calculated_at"`
}

// resolved is the outcome of turning raw input into billing terms.
type resolved struct {
	booking  *models.Booking
	inputs   billing.Inputs
	split    billing.SplitTimes
	items    []billing.BuilderItem
	warnings []string
}

func (s *CheckInService) resolve(ctx context.Context, input CheckInInput) (*resolved, error) {
	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}

	aircraftRate, err := s.rates.Lookup(ctx, models.RateResourceAircraft, booking.AircraftID, booking.FlightTypeID)
	if err != nil {
		if errors.Is(err, repository.ErrChargeRateNotFound) {
			return nil, ErrNoChargeRate
		}
		return nil, err
	}

	basis, ambiguous := billing.DeriveBasis(&billing.ChargeRate{
		ID:              aircraftRate.ID,
		RatePerHour:     aircraftRate.RatePerHour,
		ChargeHobbs:     aircraftRate.ChargeHobbs,
		ChargeTacho:     aircraftRate.ChargeTacho,
		ChargeAirswitch: aircraftRate.ChargeAirswitch,
	})
	switch basis {
	case billing.BasisNone:
		return nil, ErrNoChargeBasis
	case billing.BasisAirswitch:
		return nil, ErrAirswitchUnsupported
	}

	var warnings []string
	if ambiguous {
		warnings = append(warnings, "charge rate has multiple meter flags set, billing on "+string(basis))
		s.logger.Warn("ambiguous charge basis configuration",
			zap.Int64("charge_rate_id", aircraftRate.ID),
			zap.String("basis", string(basis)),
		)
	}

	var start, end *float64
	switch basis {
	case billing.BasisHobbs:
		start, end = input.HobbsStart, input.HobbsEnd
	case billing.BasisTacho:
		start, end = input.TachoStart, input.TachoEnd
	}

	split := billing.ComputeSplit(basis, input.Instruction, input.SoloAtEnd, start, end, input.DualEnd)
	if split.Error != "" {
		return nil, validationErrorf(split.Error)
	}

	var instructorRate float64
	if booking.InstructorID != 0 {
		rate, err := s.rates.Lookup(ctx, models.RateResourceInstructor, booking.InstructorID, booking.FlightTypeID)
		if err != nil && !errors.Is(err, repository.ErrChargeRateNotFound) {
			return nil, err
		}
		if rate != nil {
			instructorRate = rate.RatePerHour
		}
	}

	taxRate := s.fallbackTaxRate
	if settings, err := s.settings.Get(ctx); err == nil {
		taxRate = settings.DefaultTaxRate
	} else if !errors.Is(err, repository.ErrSettingsNotFound) {
		return nil, err
	}

	inputs := billing.Inputs{
		AircraftID:     booking.AircraftID,
		FlightTypeID:   booking.FlightTypeID,
		InstructorID:   booking.InstructorID,
		Instruction:    input.Instruction,
		SoloAtEnd:      input.SoloAtEnd,
		HobbsStart:     input.HobbsStart,
		HobbsEnd:       input.HobbsEnd,
		TachoStart:     input.TachoStart,
		TachoEnd:       input.TachoEnd,
		DualEnd:        input.DualEnd,
		Basis:          basis,
		AircraftRate:   aircraftRate.RatePerHour,
		InstructorRate: instructorRate,
		TaxRate:        taxRate,
	}

	items := billing.GeneratedItems(billing.GeneratedItemsParams{
		Basis:              basis,
		BillingHours:       split.Total,
		AircraftRate:       aircraftRate.RatePerHour,
		InstructorSelected: booking.InstructorID != 0,
		InstructorRate:     instructorRate,
		Instruction:        input.Instruction,
		Split:              split,
	})

	return &resolved{
		booking:  booking,
		inputs:   inputs,
		split:    split,
		items:    items,
		warnings: warnings,
	}, nil
}

// Calculate builds (or rebuilds) the draft invoice for a booking check-in.
// An existing draft keeps its manual items; overrides, removals and any open
// edit are reset.
func (s *CheckInService) Calculate(ctx context.Context, input CheckInInput) (*DraftView, error) {
	res, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	draft, err := s.drafts.Get(ctx, input.BookingID)
	switch {
	case err == nil && draft.InvoiceID == 0:
		if err := draft.Recalculate(res.inputs, res.split.Total, res.split, res.inputs.TaxRate, res.items); err != nil {
			return nil, err
		}
	case err == nil:
		return nil, billing.ErrAlreadyCommitted
	default:
		draft, err = billing.NewDraft(res.inputs, res.split.Total, res.split, res.inputs.TaxRate, res.items)
		if err != nil {
			return nil, err
		}
	}

	if err := s.drafts.Save(ctx, input.BookingID, draft); err != nil {
		return nil, err
	}

	s.logger.Info("check-in draft calculated",
		zap.Int64("booking_id", input.BookingID),
		zap.String("basis", string(res.inputs.Basis)),
		zap.Float64("billing_hours", res.split.Total),
	)
	return s.view(input.BookingID, draft, res), nil
}

// Draft returns the cached draft with its state derived against the current
// form inputs, so the UI can render staleness without recalculating.
func (s *CheckInService) Draft(ctx context.Context, input CheckInInput) (*DraftView, error) {
	res, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	draft, err := s.loadDraft(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	return s.view(input.BookingID, draft, res), nil
}

// LineEdit is one line edit from the UI. UnitPriceInclusive is the
// tax-inclusive rate the user typed; it is converted back to the stored
// tax-exclusive price through the shared conversion helpers.
type LineEdit struct {
	ItemID             string  `json:"item_id"`
	Quantity           float64 `json:"quantity"`
	UnitPriceInclusive float64 `json:"unit_price_inclusive"`
}

// BeginEdit opens a line for editing, enforcing the one-open-editor rule.
func (s *CheckInService) BeginEdit(ctx context.Context, bookingID int64, itemID string) error {
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		return d.BeginEdit(itemID)
	})
}

// ApplyEdit stores the edited values and closes the editor. Generated lines
// become overrides (pruned when they match the base); manual lines are
// updated in place.
func (s *CheckInService) ApplyEdit(ctx context.Context, bookingID int64, edit LineEdit) error {
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		item, found := findItem(d, edit.ItemID)
		if !found {
			return billing.ErrUnknownItem
		}

		taxRate := d.TaxRate
		if item.TaxRate != nil && *item.TaxRate >= 0 {
			taxRate = *item.TaxRate
		}
		exclusive := billing.InclusiveToExclusive(edit.UnitPriceInclusive, taxRate)

		if item.Source == billing.SourceGenerated {
			if err := d.SetOverride(edit.ItemID, edit.Quantity, exclusive); err != nil {
				return err
			}
		} else {
			item.Quantity = edit.Quantity
			item.UnitPrice = exclusive
			if err := d.UpdateManual(item); err != nil {
				return err
			}
		}
		d.EndEdit()
		return nil
	})
}

// CancelEdit closes the open editor without applying anything.
func (s *CheckInService) CancelEdit(ctx context.Context, bookingID int64) error {
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		d.EndEdit()
		return nil
	})
}

// AddManualItem appends a manual fee line to the draft.
func (s *CheckInService) AddManualItem(ctx context.Context, bookingID int64, item billing.BuilderItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		return d.AddManual(item)
	})
}

// RemoveLine removes a draft line.
func (s *CheckInService) RemoveLine(ctx context.Context, bookingID int64, itemID string) error {
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		return d.RemoveItem(itemID)
	})
}

// ReinstateLine restores a removed generated line with its base values.
func (s *CheckInService) ReinstateLine(ctx context.Context, bookingID int64, itemID string) error {
	return s.mutateDraft(ctx, bookingID, func(d *billing.Draft) error {
		return d.ReinstateItem(itemID)
	})
}

// Approve freezes the draft into an invoice through the atomic approval
// procedure. Approval is blocked while the draft is stale against the
// submitted inputs; it never recalculates silently.
func (s *CheckInService) Approve(ctx context.Context, input CheckInInput) (*models.Invoice, error) {
	res, err := s.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	draft, err := s.loadDraft(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if err := draft.CanApprove(res.inputs); err != nil {
		return nil, err
	}

	lines := draft.ApprovableLines()
	totals := billing.SumTotals(lines)

	items := make([]models.InvoiceItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.InvoiceItem{
			ChargeableID: line.ChargeableID,
			Description:  line.Description,
			Note:         line.Note,
			Quantity:     line.Quantity,
			UnitPrice:    line.UnitPrice,
			TaxRate:      line.TaxRateApplied,
			Amount:       line.Amount,
			TaxAmount:    line.TaxAmount,
			LineTotal:    line.LineTotal,
			Source:       string(line.Source),
		})
	}

	invoice, err := s.invoices.ApproveCheckIn(ctx, repository.ApproveParams{
		Booking:      res.booking,
		Number:       newInvoiceNumber(),
		BillingBasis: string(res.inputs.Basis),
		BillingHours: res.split.Total,
		DualTime:     res.split.Dual,
		SoloTime:     res.split.Solo,
		HobbsStart:   input.HobbsStart,
		HobbsEnd:     input.HobbsEnd,
		TachoStart:   input.TachoStart,
		TachoEnd:     input.TachoEnd,
		Subtotal:     totals.Subtotal,
		Tax:          totals.Tax,
		Total:        totals.Total,
		Items:        items,
	})
	if err != nil {
		// No local state moves: the draft stays approvable so the user can
		// retry after a transient failure.
		return nil, err
	}

	draft.MarkCommitted(invoice.ID)
	if err := s.drafts.Save(ctx, input.BookingID, draft); err != nil {
		s.logger.Warn("failed to persist committed draft", zap.Error(err), zap.Int64("booking_id", input.BookingID))
	}

	s.logger.Info("check-in approved",
		zap.Int64("booking_id", input.BookingID),
		zap.Int64("invoice_id", invoice.ID),
		zap.Float64("total", totals.Total),
	)
	return invoice, nil
}

// CorrectionInput is a post-approval meter correction.
type CorrectionInput struct {
	BookingID int64    `json:"booking_id"`
	HobbsEnd  *float64 `json:"hobbs_end,omitempty"`
	TachoEnd  *float64 `json:"tacho_end,omitempty"`
	Reason    string   `json:"reason"`
}

const minCorrectionReasonLen = 10

// Correct applies new end readings to an approved check-in. The free-text
// reason is mandatory and must carry at least ten characters.
func (s *CheckInService) Correct(ctx context.Context, input CorrectionInput) error {
	if len(strings.TrimSpace(input.Reason)) < minCorrectionReasonLen {
		return validationErrorf(fmt.Sprintf("correction reason must be at least %d characters", minCorrectionReasonLen))
	}

	checkIn, err := s.invoices.GetCheckIn(ctx, input.BookingID)
	if err != nil {
		return err
	}

	hours := checkIn.BillingHours
	switch billing.Basis(checkIn.BillingBasis) {
	case billing.BasisHobbs:
		if checkIn.HobbsStart != nil && input.HobbsEnd != nil {
			hours = billing.FlightHours(*checkIn.HobbsStart, *input.HobbsEnd)
		}
	case billing.BasisTacho:
		if checkIn.TachoStart != nil && input.TachoEnd != nil {
			hours = billing.FlightHours(*checkIn.TachoStart, *input.TachoEnd)
		}
	}

	if err := s.invoices.CorrectCheckIn(ctx, repository.CorrectionParams{
		BookingID:    input.BookingID,
		HobbsEnd:     input.HobbsEnd,
		TachoEnd:     input.TachoEnd,
		BillingHours: hours,
		Reason:       strings.TrimSpace(input.Reason),
	}); err != nil {
		return err
	}

	s.logger.Info("check-in corrected",
		zap.Int64("booking_id", input.BookingID),
		zap.Float64("billing_hours", hours),
	)
	return nil
}

// DiscardDraft drops the cached draft, e.g. when the check-in modal closes.
func (s *CheckInService) DiscardDraft(ctx context.Context, bookingID int64) error {
	return s.drafts.Delete(ctx, bookingID)
}

func (s *CheckInService) loadDraft(ctx context.Context, bookingID int64) (*billing.Draft, error) {
	draft, err := s.drafts.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, redisstore.ErrDraftNotFound) {
			return nil, ErrNoDraft
		}
		return nil, err
	}
	return draft, nil
}

func (s *CheckInService) mutateDraft(ctx context.Context, bookingID int64, mutate func(*billing.Draft) error) error {
	draft, err := s.loadDraft(ctx, bookingID)
	if err != nil {
		return err
	}
	if err := mutate(draft); err != nil {
		return err
	}
	return s.drafts.Save(ctx, bookingID, draft)
}

func (s *CheckInService) view(bookingID int64, draft *billing.Draft, res *resolved) *DraftView {
	lines := draft.Lines()
	return &DraftView{
		BookingID:    bookingID,
		State:        draft.State(res.inputs),
		Basis:        draft.Basis,
		BillingHours: draft.BillingHours,
		Split:        draft.Split,
		TaxRate:      draft.TaxRate,
		Items:        draft.EffectiveItems(),
		Lines:        lines,
		Totals:       billing.SumTotals(lines),
		Warnings:     res.warnings,
		InvoiceID:    draft.InvoiceID,
		CalculatedAt: draft.CalculatedAt,
	}
}

func findItem(d *billing.Draft, itemID string) (billing.BuilderItem, bool) {
	for _, item := range d.Generated {
		if item.ID == itemID {
			return item, true
		}
	}
	for _, item := range d.Manual {
		if item.ID == itemID {
			return item, true
		}
	}
	return billing.BuilderItem{}, false
}

func newInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}
