package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"go.uber.org/zap"

	"flightline/internal/billing"
	"flightline/internal/models"
)

func fp(v float64) *float64 { return &v }

func approxEq(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

type checkInFixture struct {
	svc      *CheckInService
	bookings *fakeBookings
	rates    *fakeRates
	settings *fakeSettings
	invoices *fakeInvoices
	drafts   *fakeDrafts
}

func newCheckInFixture() *checkInFixture {
	bookings := &fakeBookings{byID: map[int64]*models.Booking{
		1: {ID: 1, StudentID: 5, AircraftID: 7, InstructorID: 11, FlightTypeID: 2, Status: models.BookingStatusScheduled},
	}}
	rates := &fakeRates{rates: map[rateKey]*models.ChargeRate{
		{models.RateResourceAircraft, 7, 2}:    {ID: 21, RatePerHour: 120, ChargeHobbs: true},
		{models.RateResourceInstructor, 11, 2}: {ID: 22, RatePerHour: 80, ChargeHobbs: true},
	}}
	settings := &fakeSettings{settings: &models.SchoolSettings{DefaultTaxRate: 0.15, Timezone: "UTC"}}
	invoices := &fakeInvoices{}
	drafts := newFakeDrafts()

	return &checkInFixture{
		svc:      NewCheckInService(bookings, rates, settings, invoices, drafts, 0.10, zap.NewNop()),
		bookings: bookings,
		rates:    rates,
		settings: settings,
		invoices: invoices,
		drafts:   drafts,
	}
}

func dualInput(hobbsStart, hobbsEnd float64) CheckInInput {
	return CheckInInput{
		BookingID:   1,
		HobbsStart:  fp(hobbsStart),
		HobbsEnd:    fp(hobbsEnd),
		Instruction: billing.InstructionDual,
	}
}

func TestCalculateDualHobbs(t *testing.T) {
	fx := newCheckInFixture()

	view, err := fx.svc.Calculate(context.Background(), dualInput(100, 102))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if view.Basis != billing.BasisHobbs {
		t.Errorf("basis = %q, want hobbs", view.Basis)
	}
	if view.BillingHours != 2 {
		t.Errorf("billing hours = %v, want 2", view.BillingHours)
	}
	if view.State != billing.StateCalculated {
		t.Errorf("state = %q, want calculated", view.State)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("lines = %d, want 2 (aircraft hire + instructor)", len(view.Lines))
	}
	if !approxEq(view.Totals.Subtotal, 400) || !approxEq(view.Totals.Tax, 60) || !approxEq(view.Totals.Total, 460) {
		t.Errorf("totals = %+v, want 400/60/460", view.Totals)
	}
	if len(view.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", view.Warnings)
	}
	if _, ok := fx.drafts.drafts[1]; !ok {
		t.Error("draft was not cached")
	}
}

func TestCalculateFallbackTaxRate(t *testing.T) {
	fx := newCheckInFixture()
	fx.settings.settings = nil

	view, err := fx.svc.Calculate(context.Background(), dualInput(100, 101))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if view.TaxRate != 0.10 {
		t.Errorf("tax rate = %v, want fallback 0.10", view.TaxRate)
	}
}

func TestCalculateNoChargeRate(t *testing.T) {
	fx := newCheckInFixture()
	fx.rates.rates = nil

	if _, err := fx.svc.Calculate(context.Background(), dualInput(100, 102)); !errors.Is(err, ErrNoChargeRate) {
		t.Errorf("err = %v, want ErrNoChargeRate", err)
	}
}

func TestCalculateAirswitchRejected(t *testing.T) {
	fx := newCheckInFixture()
	fx.rates.rates[rateKey{models.RateResourceAircraft, 7, 2}] = &models.ChargeRate{ID: 21, RatePerHour: 120, ChargeAirswitch: true}

	if _, err := fx.svc.Calculate(context.Background(), dualInput(100, 102)); !errors.Is(err, ErrAirswitchUnsupported) {
		t.Errorf("err = %v, want ErrAirswitchUnsupported", err)
	}
}

func TestCalculateNoBasisConfigured(t *testing.T) {
	fx := newCheckInFixture()
	fx.rates.rates[rateKey{models.RateResourceAircraft, 7, 2}] = &models.ChargeRate{ID: 21, RatePerHour: 120}

	if _, err := fx.svc.Calculate(context.Background(), dualInput(100, 102)); !errors.Is(err, ErrNoChargeBasis) {
		t.Errorf("err = %v, want ErrNoChargeBasis", err)
	}
}

func TestCalculateAmbiguousBasisWarns(t *testing.T) {
	fx := newCheckInFixture()
	fx.rates.rates[rateKey{models.RateResourceAircraft, 7, 2}] = &models.ChargeRate{
		ID: 21, RatePerHour: 120, ChargeHobbs: true, ChargeTacho: true,
	}

	view, err := fx.svc.Calculate(context.Background(), dualInput(100, 102))
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if view.Basis != billing.BasisHobbs {
		t.Errorf("basis = %q, want hobbs to win the tie-break", view.Basis)
	}
	if len(view.Warnings) != 1 {
		t.Errorf("warnings = %v, want exactly one ambiguity warning", view.Warnings)
	}
}

func TestCalculateSoloSplitValidation(t *testing.T) {
	fx := newCheckInFixture()

	input := dualInput(100, 102)
	input.SoloAtEnd = true // no dual end supplied

	_, err := fx.svc.Calculate(context.Background(), input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Message != "Solo split requires start, dual end, and solo end" {
		t.Errorf("message = %q", verr.Message)
	}
}

func TestCalculateKeepsManualItems(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := fx.svc.AddManualItem(ctx, 1, billing.BuilderItem{
		Description: "Landing fee", Quantity: 1, UnitPrice: 25, Source: billing.SourceManual, ManualGroup: billing.GroupLandingFee,
	}); err != nil {
		t.Fatalf("AddManualItem: %v", err)
	}

	view, err := fx.svc.Calculate(ctx, dualInput(100, 103))
	if err != nil {
		t.Fatalf("second Calculate: %v", err)
	}

	found := false
	for _, item := range view.Items {
		if item.Description == "Landing fee" {
			found = true
		}
	}
	if !found {
		t.Error("manual item lost across recalculation")
	}
	if view.BillingHours != 3 {
		t.Errorf("billing hours = %v, want 3 after recalculation", view.BillingHours)
	}
}

func TestApplyEditConvertsInclusivePrice(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := fx.svc.BeginEdit(ctx, 1, billing.ItemIDAircraftHire); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := fx.svc.ApplyEdit(ctx, 1, LineEdit{ItemID: billing.ItemIDAircraftHire, Quantity: 2, UnitPriceInclusive: 161}); err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}

	draft := fx.drafts.drafts[1]
	override, ok := draft.Overrides[billing.ItemIDAircraftHire]
	if !ok {
		t.Fatal("override not stored")
	}
	if !approxEq(override.UnitPrice, 140) {
		t.Errorf("override unit price = %v, want 140 (161 inclusive at 15%% tax)", override.UnitPrice)
	}
	if draft.EditingID != "" {
		t.Errorf("editing id = %q, want cleared after apply", draft.EditingID)
	}
}

func TestApplyEditPrunesNoopOverride(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := fx.svc.BeginEdit(ctx, 1, billing.ItemIDAircraftHire); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	// 138 inclusive is exactly the base 120 exclusive rate at 15% tax.
	if err := fx.svc.ApplyEdit(ctx, 1, LineEdit{ItemID: billing.ItemIDAircraftHire, Quantity: 2, UnitPriceInclusive: 138}); err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}

	if _, ok := fx.drafts.drafts[1].Overrides[billing.ItemIDAircraftHire]; ok {
		t.Error("no-op edit should not leave an override behind")
	}
}

func TestApproveBlockedWhileStale(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if _, err := fx.svc.Approve(ctx, dualInput(100, 103)); !errors.Is(err, billing.ErrDraftStale) {
		t.Errorf("err = %v, want ErrDraftStale", err)
	}
	if fx.invoices.approveParams != nil {
		t.Error("approval procedure must not run for a stale draft")
	}
}

func TestApproveWithoutDraft(t *testing.T) {
	fx := newCheckInFixture()

	if _, err := fx.svc.Approve(context.Background(), dualInput(100, 102)); !errors.Is(err, ErrNoDraft) {
		t.Errorf("err = %v, want ErrNoDraft", err)
	}
}

func TestApproveCommitsDraft(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()
	input := dualInput(100, 102)

	if _, err := fx.svc.Calculate(ctx, input); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	invoice, err := fx.svc.Approve(ctx, input)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if !strings.HasPrefix(invoice.Number, "INV-") {
		t.Errorf("invoice number = %q, want INV- prefix", invoice.Number)
	}
	p := fx.invoices.approveParams
	if p == nil {
		t.Fatal("approval procedure was not called")
	}
	if p.BillingBasis != "hobbs" || p.BillingHours != 2 {
		t.Errorf("params basis/hours = %q/%v", p.BillingBasis, p.BillingHours)
	}
	if !approxEq(p.Subtotal, 400) || !approxEq(p.Tax, 60) || !approxEq(p.Total, 460) {
		t.Errorf("params totals = %v/%v/%v, want 400/60/460", p.Subtotal, p.Tax, p.Total)
	}
	if len(p.Items) != 2 {
		t.Errorf("invoice items = %d, want 2", len(p.Items))
	}
	if fx.drafts.drafts[1].InvoiceID != invoice.ID {
		t.Error("cached draft was not marked committed")
	}

	// Committed drafts are frozen on both paths.
	if _, err := fx.svc.Approve(ctx, input); !errors.Is(err, billing.ErrAlreadyCommitted) {
		t.Errorf("second approve err = %v, want ErrAlreadyCommitted", err)
	}
	if _, err := fx.svc.Calculate(ctx, input); !errors.Is(err, billing.ErrAlreadyCommitted) {
		t.Errorf("recalculate err = %v, want ErrAlreadyCommitted", err)
	}
}

func TestApproveFailureKeepsDraftOpen(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()
	input := dualInput(100, 102)

	if _, err := fx.svc.Calculate(ctx, input); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	fx.invoices.approveErr = errors.New("db down")

	if _, err := fx.svc.Approve(ctx, input); err == nil {
		t.Fatal("expected approval error")
	}
	if fx.drafts.drafts[1].InvoiceID != 0 {
		t.Error("draft must stay uncommitted after a failed approval")
	}

	fx.invoices.approveErr = nil
	if _, err := fx.svc.Approve(ctx, input); err != nil {
		t.Errorf("retry after transient failure: %v", err)
	}
}

func TestCorrectRejectsShortReason(t *testing.T) {
	fx := newCheckInFixture()

	err := fx.svc.Correct(context.Background(), CorrectionInput{BookingID: 1, HobbsEnd: fp(103), Reason: "  typo  "})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestCorrectRecomputesHours(t *testing.T) {
	fx := newCheckInFixture()
	fx.invoices.checkIn = &models.CheckIn{
		ID: 3, BookingID: 1, InvoiceID: 101,
		BillingBasis: "hobbs", BillingHours: 2,
		HobbsStart: fp(100), HobbsEnd: fp(102),
	}

	err := fx.svc.Correct(context.Background(), CorrectionInput{
		BookingID: 1,
		HobbsEnd:  fp(103.5),
		Reason:    "pilot misread the hobbs meter",
	})
	if err != nil {
		t.Fatalf("Correct: %v", err)
	}

	c := fx.invoices.correction
	if c == nil {
		t.Fatal("correction procedure was not called")
	}
	if !approxEq(c.BillingHours, 3.5) {
		t.Errorf("recomputed hours = %v, want 3.5", c.BillingHours)
	}
	if c.Reason != "pilot misread the hobbs meter" {
		t.Errorf("reason = %q, want trimmed original", c.Reason)
	}
}

func TestRemoveAndReinstateLine(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := fx.svc.RemoveLine(ctx, 1, billing.ItemIDInstructorRate); err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}

	view, err := fx.svc.Draft(ctx, dualInput(100, 102))
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Errorf("lines after removal = %d, want 1", len(view.Lines))
	}
	if !approxEq(view.Totals.Total, 276) {
		t.Errorf("total after removal = %v, want 276 (aircraft hire only)", view.Totals.Total)
	}

	if err := fx.svc.ReinstateLine(ctx, 1, billing.ItemIDInstructorRate); err != nil {
		t.Fatalf("ReinstateLine: %v", err)
	}
	view, err = fx.svc.Draft(ctx, dualInput(100, 102))
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Errorf("lines after reinstate = %d, want 2", len(view.Lines))
	}
}

func TestDiscardDraft(t *testing.T) {
	fx := newCheckInFixture()
	ctx := context.Background()

	if _, err := fx.svc.Calculate(ctx, dualInput(100, 102)); err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if err := fx.svc.DiscardDraft(ctx, 1); err != nil {
		t.Fatalf("DiscardDraft: %v", err)
	}
	if _, err := fx.svc.Draft(ctx, dualInput(100, 102)); !errors.Is(err, ErrNoDraft) {
		t.Errorf("err = %v, want ErrNoDraft after discard", err)
	}
}
