package billing

import (
	"errors"
	"testing"
)

func calculatedDraft(t *testing.T) (*Draft, Inputs) {
	t.Helper()
	in := sampleInputs()
	split := SplitTimes{Total: 2.0, Dual: 2.0}
	items := GeneratedItems(GeneratedItemsParams{
		Basis:              in.Basis,
		BillingHours:       2.0,
		AircraftRate:       in.AircraftRate,
		InstructorSelected: true,
		InstructorRate:     80,
		Instruction:        in.Instruction,
		Split:              split,
	})
	draft, err := NewDraft(in, 2.0, split, in.TaxRate, items)
	if err != nil {
		t.Fatalf("NewDraft: %v", err)
	}
	return draft, in
}

func TestNewDraftRequiresGeneratedItems(t *testing.T) {
	if _, err := NewDraft(sampleInputs(), 0, SplitTimes{}, 0.15, nil); !errors.Is(err, ErrNothingToCalculate) {
		t.Fatalf("err = %v, want ErrNothingToCalculate", err)
	}
}

func TestDraftStalenessTogglesWithInputs(t *testing.T) {
	draft, in := calculatedDraft(t)

	if draft.State(in) != StateCalculated {
		t.Fatalf("state = %s, want calculated", draft.State(in))
	}

	changed := in
	changed.HobbsEnd = fptr(103.0)
	if !draft.IsStale(changed) {
		t.Fatal("changing hobbs_end must make the draft stale")
	}
	if draft.State(changed) != StateStale {
		t.Fatalf("state = %s, want stale", draft.State(changed))
	}

	// Reverting the input clears staleness without recalculating.
	if draft.IsStale(in) {
		t.Fatal("reverted inputs must match the stored signature again")
	}
}

func TestDraftOverridePruning(t *testing.T) {
	draft, _ := calculatedDraft(t)

	if err := draft.SetOverride(ItemIDAircraftHire, 2.5, 120); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if _, ok := draft.Overrides[ItemIDAircraftHire]; !ok {
		t.Fatal("override not recorded")
	}

	// Editing back to the exact base values removes the override entirely.
	if err := draft.SetOverride(ItemIDAircraftHire, 2.0, 120); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if _, ok := draft.Overrides[ItemIDAircraftHire]; ok {
		t.Fatal("override matching base values must be pruned, not stored")
	}
}

func TestDraftRemovalClearsOverride(t *testing.T) {
	draft, _ := calculatedDraft(t)

	if err := draft.SetOverride(ItemIDAircraftHire, 3.0, 110); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if err := draft.RemoveItem(ItemIDAircraftHire); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok := draft.Overrides[ItemIDAircraftHire]; ok {
		t.Fatal("removal must clear the override")
	}

	// Reinstating does not restore the prior override.
	if err := draft.ReinstateItem(ItemIDAircraftHire); err != nil {
		t.Fatalf("ReinstateItem: %v", err)
	}
	items := draft.EffectiveItems()
	for _, item := range items {
		if item.ID == ItemIDAircraftHire && item.Quantity != 2.0 {
			t.Fatalf("reinstated item must carry base values, got %+v", item)
		}
	}
}

func TestDraftSingleEditorInvariant(t *testing.T) {
	draft, _ := calculatedDraft(t)

	if err := draft.BeginEdit(ItemIDAircraftHire); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := draft.BeginEdit(ItemIDInstructorRate); !errors.Is(err, ErrEditInProgress) {
		t.Fatalf("second edit err = %v, want ErrEditInProgress", err)
	}
	// Re-opening the same line is allowed.
	if err := draft.BeginEdit(ItemIDAircraftHire); err != nil {
		t.Fatalf("re-opening same line: %v", err)
	}

	draft.EndEdit()
	if err := draft.BeginEdit(ItemIDInstructorRate); err != nil {
		t.Fatalf("BeginEdit after EndEdit: %v", err)
	}
}

func TestDraftManualItems(t *testing.T) {
	draft, _ := calculatedDraft(t)

	if err := draft.AddManual(BuilderItem{ID: "m1", Description: "Landing fee", Quantity: 1, UnitPrice: 25, ManualGroup: GroupLandingFee}); err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	if err := draft.UpdateManual(BuilderItem{ID: "m1", Description: "Landing fee", Quantity: 2, UnitPrice: 25, ManualGroup: GroupLandingFee}); err != nil {
		t.Fatalf("UpdateManual: %v", err)
	}
	if err := draft.RemoveItem("m1"); err != nil {
		t.Fatalf("RemoveItem manual: %v", err)
	}
	if len(draft.Manual) != 0 {
		t.Fatal("manual item must be deleted outright")
	}
}

func TestDraftRecalculateKeepsManualResetsOverrides(t *testing.T) {
	draft, in := calculatedDraft(t)

	if err := draft.AddManual(BuilderItem{ID: "m1", Quantity: 1, UnitPrice: 25, ManualGroup: GroupOther}); err != nil {
		t.Fatalf("AddManual: %v", err)
	}
	if err := draft.SetOverride(ItemIDAircraftHire, 5, 100); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if err := draft.RemoveItem(ItemIDInstructorRate); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}

	changed := in
	changed.HobbsEnd = fptr(103.0)
	split := SplitTimes{Total: 3.0, Dual: 3.0}
	items := GeneratedItems(GeneratedItemsParams{
		Basis: changed.Basis, BillingHours: 3.0, AircraftRate: changed.AircraftRate,
		InstructorSelected: true, InstructorRate: 80, Instruction: changed.Instruction, Split: split,
	})
	if err := draft.Recalculate(changed, 3.0, split, changed.TaxRate, items); err != nil {
		t.Fatalf("Recalculate: %v", err)
	}

	if len(draft.Overrides) != 0 || len(draft.Removed) != 0 {
		t.Fatal("recalculation must reset overrides and removals")
	}
	if len(draft.Manual) != 1 {
		t.Fatal("recalculation must keep manual items")
	}
	if draft.IsStale(changed) {
		t.Fatal("freshly recalculated draft must not be stale")
	}
}

func TestDraftCanApprove(t *testing.T) {
	draft, in := calculatedDraft(t)

	if err := draft.CanApprove(in); err != nil {
		t.Fatalf("CanApprove on fresh draft: %v", err)
	}

	changed := in
	changed.TaxRate = 0.1
	if err := draft.CanApprove(changed); !errors.Is(err, ErrDraftStale) {
		t.Fatalf("stale approve err = %v, want ErrDraftStale", err)
	}

	if err := draft.BeginEdit(ItemIDAircraftHire); err != nil {
		t.Fatalf("BeginEdit: %v", err)
	}
	if err := draft.CanApprove(in); !errors.Is(err, ErrEditInProgress) {
		t.Fatalf("mid-edit approve err = %v, want ErrEditInProgress", err)
	}
	draft.EndEdit()

	if err := draft.RemoveItem(ItemIDAircraftHire); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := draft.RemoveItem(ItemIDInstructorRate); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := draft.CanApprove(in); !errors.Is(err, ErrNoApprovableLines) {
		t.Fatalf("empty approve err = %v, want ErrNoApprovableLines", err)
	}
}

func TestDraftCommitIsOneWay(t *testing.T) {
	draft, in := calculatedDraft(t)

	draft.MarkCommitted(42)

	if draft.State(in) != StateCommitted {
		t.Fatalf("state = %s, want committed", draft.State(in))
	}
	if err := draft.SetOverride(ItemIDAircraftHire, 1, 1); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("mutation after commit err = %v, want ErrAlreadyCommitted", err)
	}
	if err := draft.CanApprove(in); !errors.Is(err, ErrAlreadyCommitted) {
		t.Fatalf("re-approve err = %v, want ErrAlreadyCommitted", err)
	}
}
