package billing

import (
	"errors"
	"time"
)

// Draft lifecycle errors.
var (
	// ErrNothingToCalculate signals that rate/hours preconditions produced no
	// generated items; the caller explains why rather than failing hard.
	ErrNothingToCalculate = errors.New("billing: nothing to calculate, check charge rate, billing basis and meter readings")
	// ErrDraftStale blocks approval when the inputs changed after calculation.
	// Recalculation must be explicit; amounts the user reviewed never change
	// silently.
	ErrDraftStale = errors.New("billing: inputs changed since calculation, recalculate before approving")
	// ErrEditInProgress enforces the single-open-editor invariant.
	ErrEditInProgress = errors.New("billing: finish editing the current line first")
	// ErrAlreadyCommitted rejects mutations after approval.
	ErrAlreadyCommitted = errors.New("billing: check-in already approved")
	// ErrNoApprovableLines blocks approval of an effectively empty invoice.
	ErrNoApprovableLines = errors.New("billing: no invoice lines to approve")
	// ErrUnknownItem reports an id that matches no draft line.
	ErrUnknownItem = errors.New("billing: unknown invoice item")
)

// DraftState is the lifecycle position of a draft.
type DraftState string

// Draft states. Staleness is derived by comparing signatures, not stored.
const (
	StateEmpty      DraftState = "empty"
	StateCalculated DraftState = "calculated"
	StateStale      DraftState = "stale"
	StateCommitted  DraftState = "committed"
)

// Override holds the edited quantity and tax-exclusive unit price for a
// generated item. Overrides that exactly reproduce the base values are
// pruned so the override set stays minimal.
type Override struct {
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Draft is the editable pre-commit billing computation for one booking
// check-in. It is a plain value: every mutation goes through a method that
// preserves the state machine invariants, and the whole thing serialises to
// JSON for the draft cache.
type Draft struct {
	Signature    string     `json:"signature"`
	CalculatedAt time.Time  `json:"calculated_at"`
	Basis        Basis      `json:"basis"`
	BillingHours float64    `json:"billing_hours"`
	Split        SplitTimes `json:"split"`
	TaxRate      float64    `json:"tax_rate"`

	Generated []BuilderItem       `json:"generated"`
	Manual    []BuilderItem       `json:"manual"`
	Overrides map[string]Override `json:"overrides,omitempty"`
	Removed   map[string]bool     `json:"removed,omitempty"`

	EditingID string `json:"editing_id,omitempty"`
	InvoiceID int64  `json:"invoice_id,omitempty"`
}

// NewDraft creates a CALCULATED draft from generated items. Recalculating an
// existing draft goes through Recalculate so manual items survive.
func NewDraft(in Inputs, hours float64, split SplitTimes, taxRate float64, generated []BuilderItem) (*Draft, error) {
	if len(generated) == 0 {
		return nil, ErrNothingToCalculate
	}
	return &Draft{
		Signature:    in.Signature(),
		CalculatedAt: time.Now().UTC(),
		Basis:        in.Basis,
		BillingHours: hours,
		Split:        split,
		TaxRate:      taxRate,
		Generated:    generated,
		Overrides:    map[string]Override{},
		Removed:      map[string]bool{},
	}, nil
}

// Recalculate replaces the generated lines and signature, resets per-item
// overrides, removals and any open edit, and keeps manual items.
func (d *Draft) Recalculate(in Inputs, hours float64, split SplitTimes, taxRate float64, generated []BuilderItem) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	if len(generated) == 0 {
		return ErrNothingToCalculate
	}
	d.Signature = in.Signature()
	d.CalculatedAt = time.Now().UTC()
	d.Basis = in.Basis
	d.BillingHours = hours
	d.Split = split
	d.TaxRate = taxRate
	d.Generated = generated
	d.Overrides = map[string]Override{}
	d.Removed = map[string]bool{}
	d.EditingID = ""
	return nil
}

// IsStale reports whether the current inputs no longer match the inputs the
// draft was calculated from.
func (d *Draft) IsStale(current Inputs) bool {
	return d.Signature != current.Signature()
}

// State derives the lifecycle position against the current inputs.
func (d *Draft) State(current Inputs) DraftState {
	switch {
	case d == nil:
		return StateEmpty
	case d.InvoiceID != 0:
		return StateCommitted
	case d.IsStale(current):
		return StateStale
	default:
		return StateCalculated
	}
}

// BeginEdit opens a line for editing. Only one line may be open at a time;
// opening a second is rejected with a user-facing error.
func (d *Draft) BeginEdit(itemID string) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	if d.EditingID != "" && d.EditingID != itemID {
		return ErrEditInProgress
	}
	if _, ok := d.find(itemID); !ok {
		return ErrUnknownItem
	}
	d.EditingID = itemID
	return nil
}

// EndEdit closes the open editor, if any.
func (d *Draft) EndEdit() {
	d.EditingID = ""
}

// SetOverride records edited values for a generated item. An override equal
// to the item's base quantity and unit price is pruned instead of stored.
func (d *Draft) SetOverride(itemID string, quantity, unitPrice float64) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	base, ok := d.findGenerated(itemID)
	if !ok || d.Removed[itemID] {
		return ErrUnknownItem
	}
	if base.Quantity == quantity && base.UnitPrice == unitPrice {
		delete(d.Overrides, itemID)
		return nil
	}
	if d.Overrides == nil {
		d.Overrides = map[string]Override{}
	}
	d.Overrides[itemID] = Override{Quantity: quantity, UnitPrice: unitPrice}
	return nil
}

// RemoveItem drops a line from the draft. Removing a generated item adds it
// to the removed set and clears any override for it (reinstating later does
// not restore the override); removing a manual item deletes it outright.
func (d *Draft) RemoveItem(itemID string) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	if _, ok := d.findGenerated(itemID); ok {
		if d.Removed == nil {
			d.Removed = map[string]bool{}
		}
		d.Removed[itemID] = true
		delete(d.Overrides, itemID)
		if d.EditingID == itemID {
			d.EditingID = ""
		}
		return nil
	}
	for i, item := range d.Manual {
		if item.ID == itemID {
			d.Manual = append(d.Manual[:i], d.Manual[i+1:]...)
			if d.EditingID == itemID {
				d.EditingID = ""
			}
			return nil
		}
	}
	return ErrUnknownItem
}

// ReinstateItem clears the removed flag for a generated item.
func (d *Draft) ReinstateItem(itemID string) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	if _, ok := d.findGenerated(itemID); !ok {
		return ErrUnknownItem
	}
	delete(d.Removed, itemID)
	return nil
}

// AddManual appends a manual fee item.
func (d *Draft) AddManual(item BuilderItem) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	item.Source = SourceManual
	if item.ManualGroup == "" {
		item.ManualGroup = GroupOther
	}
	d.Manual = append(d.Manual, item)
	return nil
}

// UpdateManual mutates a manual item in place.
func (d *Draft) UpdateManual(item BuilderItem) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	for i := range d.Manual {
		if d.Manual[i].ID == item.ID {
			item.Source = SourceManual
			if item.ManualGroup == "" {
				item.ManualGroup = d.Manual[i].ManualGroup
			}
			d.Manual[i] = item
			return nil
		}
	}
	return ErrUnknownItem
}

// EffectiveItems is the current line set: generated minus removed with
// overrides applied, followed by all manual items.
func (d *Draft) EffectiveItems() []BuilderItem {
	items := make([]BuilderItem, 0, len(d.Generated)+len(d.Manual))
	for _, item := range d.Generated {
		if d.Removed[item.ID] {
			continue
		}
		if ov, ok := d.Overrides[item.ID]; ok {
			item.Quantity = ov.Quantity
			item.UnitPrice = ov.UnitPrice
		}
		items = append(items, item)
	}
	items = append(items, d.Manual...)
	return items
}

// Lines calculates every effective item against the draft's tax rate.
func (d *Draft) Lines() []CalculatedLine {
	items := d.EffectiveItems()
	lines := make([]CalculatedLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CalculateLine(item, d.TaxRate))
	}
	return lines
}

// ApprovableLines filters Lines down to items passing validity; only these
// are committed at approval.
func (d *Draft) ApprovableLines() []CalculatedLine {
	var lines []CalculatedLine
	for _, item := range d.EffectiveItems() {
		if !item.Valid() {
			continue
		}
		lines = append(lines, CalculateLine(item, d.TaxRate))
	}
	return lines
}

// CanApprove checks every approval precondition against the current inputs:
// not already committed, not stale, no line mid-edit, and at least one
// approvable line.
func (d *Draft) CanApprove(current Inputs) error {
	if d.InvoiceID != 0 {
		return ErrAlreadyCommitted
	}
	if d.IsStale(current) {
		return ErrDraftStale
	}
	if d.EditingID != "" {
		return ErrEditInProgress
	}
	if len(d.ApprovableLines()) == 0 {
		return ErrNoApprovableLines
	}
	return nil
}

// MarkCommitted freezes the draft with the created invoice id. One-way: no
// un-approve exists in this component.
func (d *Draft) MarkCommitted(invoiceID int64) {
	d.InvoiceID = invoiceID
	d.EditingID = ""
}

func (d *Draft) find(itemID string) (BuilderItem, bool) {
	if item, ok := d.findGenerated(itemID); ok {
		return item, true
	}
	for _, item := range d.Manual {
		if item.ID == itemID {
			return item, true
		}
	}
	return BuilderItem{}, false
}

func (d *Draft) findGenerated(itemID string) (BuilderItem, bool) {
	for _, item := range d.Generated {
		if item.ID == itemID {
			return item, true
		}
	}
	return BuilderItem{}, false
}
