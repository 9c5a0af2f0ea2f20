package calculation

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// LegacyTaxEstimator is the dashboard estimator: a flat 15.3% SE tax with no
// wage-base cap and one simplified single-filer bracket table for every status.
// It is not expected to agree with the worksheet engine.
type LegacyTaxEstimator struct {
	Rules    domain.LegacyEstimatorRules
	Rounding domain.RoundingMode
}

// NewLegacyTaxEstimator creates an estimator rounding to cents
func NewLegacyTaxEstimator(rules domain.LegacyEstimatorRules) *LegacyTaxEstimator {
	return &LegacyTaxEstimator{Rules: rules, Rounding: domain.RoundCents}
}

// Estimate returns taxable income, federal tax, SE tax and the quarterly payment.
func (lte *LegacyTaxEstimator) Estimate(status domain.LegacyFilingStatus, gross, expenses, otherDeductions decimal.Decimal) (domain.TaxEstimate, error) {
	raw, err := lte.estimate(status, gross, expenses, otherDeductions)
	if err != nil {
		return domain.TaxEstimate{}, err
	}
	return domain.TaxEstimate{
		TaxableIncome:     lte.Rounding.Round(raw.TaxableIncome),
		FederalTax:        lte.Rounding.Round(raw.FederalTax),
		SelfEmploymentTax: lte.Rounding.Round(raw.SelfEmploymentTax),
		QuarterlyPayment:  lte.Rounding.Round(raw.QuarterlyPayment),
	}, nil
}

func (lte *LegacyTaxEstimator) estimate(status domain.LegacyFilingStatus, gross, expenses, otherDeductions decimal.Decimal) (domain.TaxEstimate, error) {
	if !status.Valid() {
		return domain.TaxEstimate{}, fmt.Errorf("%w: %q (legacy)", domain.ErrInvalidFilingStatus, status)
	}
	if len(lte.Rules.Brackets) == 0 {
		return domain.TaxEstimate{}, &domain.ConfigurationError{Reason: "legacy estimator has no brackets"}
	}

	netProfit := domain.MaxZero(gross.Sub(expenses).Sub(otherDeductions))
	seTax := domain.MaxZero(netProfit.Mul(lte.Rules.NetEarningsFactor).Mul(lte.Rules.SETaxRate))
	taxable := domain.MaxZero(netProfit.Sub(seTax.Div(decimal.NewFromInt(2))))
	federal := lte.federal(taxable)

	return domain.TaxEstimate{
		TaxableIncome:     taxable,
		FederalTax:        federal,
		SelfEmploymentTax: seTax,
		QuarterlyPayment:  federal.Add(seTax).Div(decimal.NewFromInt(4)),
	}, nil
}

// federal walks the simple table, taxing each slice up to its up_to bound.
func (lte *LegacyTaxEstimator) federal(taxable decimal.Decimal) decimal.Decimal {
	tax := decimal.Zero
	prev := decimal.Zero
	for _, b := range lte.Rules.Brackets {
		top := taxable
		if b.UpTo != nil && b.UpTo.LessThan(taxable) {
			top = *b.UpTo
		}
		if slice := top.Sub(prev); slice.IsPositive() {
			tax = tax.Add(slice.Mul(b.Rate))
		}
		if b.UpTo == nil || taxable.LessThanOrEqual(*b.UpTo) {
			break
		}
		prev = *b.UpTo
	}
	return domain.MaxZero(tax)
}
