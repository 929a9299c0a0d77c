package billing

// CalculatedLine extends a BuilderItem with its derived monetary amounts, all
// rounded to two decimals.
type CalculatedLine struct {
	BuilderItem
	TaxRateApplied float64 `json:"tax_rate_applied"`
	Amount         float64 `json:"amount"`
	TaxAmount      float64 `json:"tax_amount"`
	RateInclusive  float64 `json:"rate_inclusive"`
	LineTotal      float64 `json:"line_total"`
}

// CalculateLine computes the amounts for one item. The item's own tax rate
// applies when it is a valid non-negative number, otherwise the school
// default. An item failing validity yields zeroed amounts rather than an
// error, which keeps NaN out of interactive edit states.
func CalculateLine(item BuilderItem, defaultTaxRate float64) CalculatedLine {
	taxRate := defaultTaxRate
	if item.TaxRate != nil && finite(*item.TaxRate) && *item.TaxRate >= 0 {
		taxRate = *item.TaxRate
	}

	line := CalculatedLine{BuilderItem: item, TaxRateApplied: taxRate}
	if !item.Valid() {
		return line
	}

	line.Amount = Round2(item.Quantity * item.UnitPrice)
	line.TaxAmount = Round2(line.Amount * taxRate)
	line.RateInclusive = ExclusiveToInclusive(item.UnitPrice, taxRate)
	line.LineTotal = Round2(line.Amount + line.TaxAmount)
	return line
}

// Totals is the invoice-level sum over calculated lines.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// SumTotals aggregates line amounts into invoice totals.
func SumTotals(lines []CalculatedLine) Totals {
	var t Totals
	for _, l := range lines {
		t.Subtotal += l.Amount
		t.Tax += l.TaxAmount
	}
	t.Subtotal = Round2(t.Subtotal)
	t.Tax = Round2(t.Tax)
	t.Total = Round2(t.Subtotal + t.Tax)
	return t
}
