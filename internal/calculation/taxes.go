package calculation

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal income tax uses the Tax Rate Schedules for the tax year loaded from
//    the rule book. Qualified dividends and capital gains are not taxed at
//    preferential rates; they must be folded into other_taxes by the caller.
//
// 2. Upper bounds are inclusive: income equal to a bracket's upper bound is taxed
//    in that bracket.
//
// 3. Results are unrounded. Callers round per their RoundingMode.

// BracketTaxCalculator computes income tax from a year's rate schedules
type BracketTaxCalculator struct {
	Rules *domain.TaxYearRules
}

// NewBracketTaxCalculator creates a calculator for one tax year
func NewBracketTaxCalculator(rules *domain.TaxYearRules) *BracketTaxCalculator {
	return &BracketTaxCalculator{Rules: rules}
}

// ComputeTax returns the tax on taxable income for a filing status. A schedule in
// override replaces the configured schedule for that status only.
func (btc *BracketTaxCalculator) ComputeTax(taxable decimal.Decimal, status domain.FilingStatus, override map[domain.FilingStatus][]domain.RateBracket) (decimal.Decimal, error) {
	if btc.Rules == nil {
		return decimal.Zero, &domain.ConfigurationError{Status: status, Reason: "no tax year rules"}
	}
	sched, err := btc.Rules.Schedule(status, override)
	if err != nil {
		return decimal.Zero, err
	}
	tax, err := TaxFromSchedule(sched, taxable)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s schedule: %w", status, err)
	}
	return tax, nil
}

// TaxFromSchedule applies base + (income - lower) * rate from the first bracket
// whose inclusive upper bound covers income.
func TaxFromSchedule(sched []domain.RateBracket, taxable decimal.Decimal) (decimal.Decimal, error) {
	if taxable.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative taxable income %s", taxable)
	}
	for _, b := range sched {
		if b.Contains(taxable) {
			return b.Base.Add(taxable.Sub(b.Lower).Mul(b.Rate)), nil
		}
	}
	return decimal.Zero, &domain.ConfigurationError{Reason: fmt.Sprintf("no bracket covers %s", taxable)}
}

// MarginalRate returns the rate of the bracket that taxes the next dollar above income.
func MarginalRate(sched []domain.RateBracket, income decimal.Decimal) decimal.Decimal {
	for _, b := range sched {
		if b.Upper == nil || income.LessThan(*b.Upper) {
			return b.Rate
		}
	}
	return decimal.Zero
}
