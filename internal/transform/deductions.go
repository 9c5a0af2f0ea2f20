package transform

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// Itemize switches from the standard deduction to itemized deductions.
type Itemize struct {
	Amount decimal.Decimal
}

func (t *Itemize) Name() string { return "itemize" }

func (t *Itemize) Description() string {
	return fmt.Sprintf("Itemize %s of deductions", domain.FormatCurrency(t.Amount))
}

func (t *Itemize) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *Itemize) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	amount := t.Amount
	base.UseStandardDeduction = false
	base.ItemizedDeductions = &amount
	return base, nil
}

// UseStandardDeduction switches to the standard deduction for the year.
type UseStandardDeduction struct{}

func (t *UseStandardDeduction) Name() string { return "standard_deduction" }

func (t *UseStandardDeduction) Description() string { return "Take the standard deduction" }

func (t *UseStandardDeduction) Validate(base domain.WorksheetInputs) error { return nil }

func (t *UseStandardDeduction) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	base.UseStandardDeduction = true
	return base, nil
}

// Flags accepted by SetFlag, named after their input file keys.
const (
	FlagHighIncome     = "high_income_prior_year"
	FlagFarmerOrFisher = "farmer_or_fisher"
)

// SetFlag sets one of the boolean worksheet inputs.
type SetFlag struct {
	Field string
	Value bool
}

func (t *SetFlag) Name() string { return "set_flag" }

func (t *SetFlag) Description() string {
	return fmt.Sprintf("Set %s to %t", t.Field, t.Value)
}

func (t *SetFlag) Validate(base domain.WorksheetInputs) error {
	switch t.Field {
	case FlagHighIncome, FlagFarmerOrFisher:
		return nil
	}
	return NewTransformError(t.Name(), "validate", fmt.Sprintf("unsupported flag %q", t.Field), nil)
}

func (t *SetFlag) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	switch t.Field {
	case FlagHighIncome:
		base.HighIncomePriorYear = t.Value
	case FlagFarmerOrFisher:
		base.FarmerOrFisher = t.Value
	}
	return base, nil
}
