package transform

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

func nonNegative(name, field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return NewTransformError(name, "validate", fmt.Sprintf("%s must be non-negative, got %s", field, v), nil)
	}
	return nil
}

// SetGrossIncome replaces the projected gross income.
type SetGrossIncome struct {
	Amount decimal.Decimal
}

func (t *SetGrossIncome) Name() string { return "set_gross" }

func (t *SetGrossIncome) Description() string {
	return fmt.Sprintf("Set projected gross income to %s", domain.FormatCurrency(t.Amount))
}

func (t *SetGrossIncome) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *SetGrossIncome) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	amount := t.Amount
	base.ProjectedGrossIncome = &amount
	return base, nil
}

// AdjustGrossIncome adds Delta (which may be negative) to the projected
// gross income. The result is never below zero.
type AdjustGrossIncome struct {
	Delta decimal.Decimal
}

func (t *AdjustGrossIncome) Name() string { return "adjust_gross" }

func (t *AdjustGrossIncome) Description() string {
	if t.Delta.IsNegative() {
		return fmt.Sprintf("Lower projected gross income by %s", domain.FormatCurrency(t.Delta.Neg()))
	}
	return fmt.Sprintf("Raise projected gross income by %s", domain.FormatCurrency(t.Delta))
}

func (t *AdjustGrossIncome) Validate(base domain.WorksheetInputs) error { return nil }

func (t *AdjustGrossIncome) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	gross := domain.MaxZero(domain.Deref(base.ProjectedGrossIncome).Add(t.Delta))
	base.ProjectedGrossIncome = &gross
	return base, nil
}

// SetSEProfit replaces the self-employment net profit. Gross income moves by
// the same amount so the non-SE part of it stays fixed.
type SetSEProfit struct {
	Amount decimal.Decimal
}

func (t *SetSEProfit) Name() string { return "set_se_profit" }

func (t *SetSEProfit) Description() string {
	return fmt.Sprintf("Set self-employment net profit to %s", domain.FormatCurrency(t.Amount))
}

func (t *SetSEProfit) Validate(base domain.WorksheetInputs) error {
	return nonNegative(t.Name(), "amount", t.Amount)
}

func (t *SetSEProfit) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	other := domain.MaxZero(domain.Deref(base.ProjectedGrossIncome).Sub(domain.MaxZero(domain.Deref(base.SelfEmploymentNetProfit))))
	gross := other.Add(t.Amount)
	profit := t.Amount
	base.ProjectedGrossIncome = &gross
	base.SelfEmploymentNetProfit = &profit
	return base, nil
}

// AdjustSEProfit adds Delta to the self-employment net profit, moving gross
// income with it.
type AdjustSEProfit struct {
	Delta decimal.Decimal
}

func (t *AdjustSEProfit) Name() string { return "adjust_se_profit" }

func (t *AdjustSEProfit) Description() string {
	if t.Delta.IsNegative() {
		return fmt.Sprintf("Lower self-employment profit by %s", domain.FormatCurrency(t.Delta.Neg()))
	}
	return fmt.Sprintf("Add %s of self-employment profit", domain.FormatCurrency(t.Delta))
}

func (t *AdjustSEProfit) Validate(base domain.WorksheetInputs) error { return nil }

func (t *AdjustSEProfit) Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error) {
	current := domain.MaxZero(domain.Deref(base.SelfEmploymentNetProfit))
	set := &SetSEProfit{Amount: domain.MaxZero(current.Add(t.Delta))}
	return set.Apply(base)
}
