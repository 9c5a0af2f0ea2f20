package transform

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// SetWithholding replaces the federal income tax withheld.
type SetWithholding struct {
	Amount decimal.Decimal
}

func (t *SetWithholding) Name() string { return "set_withholding" }

func (t *SetWithholding) Description() string {
	return fmt.Sprintf("Set income tax withheld to %s", domain.FormatCurrency(t.Amount))
}

func (t *SetWithholding) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *SetWithholding) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	amount := t.Amount
	base.IncomeTaxWithheld = &amount
	return base, nil
}

// AddWithholding increases the income tax withheld, for example after
// filing a new W-4.
type AddWithholding struct {
	Amount decimal.Decimal
}

func (t *AddWithholding) Name() string { return "add_withholding" }

func (t *AddWithholding) Description() string {
	return fmt.Sprintf("Withhold an additional %s", domain.FormatCurrency(t.Amount))
}

func (t *AddWithholding) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *AddWithholding) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	total := domain.Deref(base.IncomeTaxWithheld).Add(t.Amount)
	base.IncomeTaxWithheld = &total
	return base, nil
}

// SetPriorYearTax replaces the prior-year total tax and, when HighIncome is
// set, the 110% safe harbor flag.
type SetPriorYearTax struct {
	Amount     decimal.Decimal
	HighIncome *bool
}

func (t *SetPriorYearTax) Name() string { return "set_prior_tax" }

func (t *SetPriorYearTax) Description() string {
	desc := fmt.Sprintf("Set prior-year total tax to %s", domain.FormatCurrency(t.Amount))
	if t.HighIncome != nil && *t.HighIncome {
		desc += " (110% safe harbor)"
	}
	return desc
}

func (t *SetPriorYearTax) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *SetPriorYearTax) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	amount := t.Amount
	base.PriorYearTotalTax = &amount
	if t.HighIncome != nil {
		base.HighIncomePriorYear = *t.HighIncome
	}
	return base, nil
}

// ApplyOverpayment credits last year's overpayment to the first installment.
type ApplyOverpayment struct {
	Amount decimal.Decimal
}

func (t *ApplyOverpayment) Name() string { return "apply_overpayment" }

func (t *ApplyOverpayment) Description() string {
	return fmt.Sprintf("Apply a %s overpayment to the first installment", domain.FormatCurrency(t.Amount))
}

func (t *ApplyOverpayment) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *ApplyOverpayment) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	amount := t.Amount
	base.OverpaymentAppliedFirstInstallment = &amount
	return base, nil
}
