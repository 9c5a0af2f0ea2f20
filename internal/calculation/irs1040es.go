package calculation

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// Irs1040EsComputation is the all-in-one 1040-ES computation that predates the
// worksheet engine. It builds on the legacy estimator and suggests the amount
// of the next payment voucher.
type Irs1040EsComputation struct {
	Estimator *LegacyTaxEstimator
	Rounding  domain.RoundingMode
	Logger    Logger
}

// NewIrs1040EsComputation creates the computation over the legacy estimator rules
func NewIrs1040EsComputation(rules domain.LegacyEstimatorRules) *Irs1040EsComputation {
	return &Irs1040EsComputation{
		Estimator: NewLegacyTaxEstimator(rules),
		Rounding:  domain.RoundCents,
		Logger:    NopLogger{},
	}
}

// Compute returns total tax, the required annual payment and the next voucher amount.
//
// Unlike worksheet line 12c, the required annual payment is the largest of the
// candidates: 90% of current-year tax, and when prior-year tax is known, 100% of
// it plus 110% of it under the high-income option.
func (c *Irs1040EsComputation) Compute(in domain.Irs1040EsInput) (*domain.Irs1040EsResult, error) {
	logger := c.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	res := &domain.Irs1040EsResult{MissingPrompts: []string{}}

	if in.Name == "" {
		res.MissingPrompts = append(res.MissingPrompts, "name")
	}
	status := in.FilingStatus
	if status == "" {
		res.MissingPrompts = append(res.MissingPrompts, "filing_status")
		status = domain.LegacySingle
	}
	if in.ExpectedAnnualIncome == nil {
		res.MissingPrompts = append(res.MissingPrompts, "expected_annual_income")
	}
	if in.DeductibleExpenses == nil {
		res.MissingPrompts = append(res.MissingPrompts, "deductible_expenses")
	}
	if !in.SafeHarbor.Valid() {
		return nil, fmt.Errorf("unknown safe harbor option %q", in.SafeHarbor)
	}

	nonNeg := func(field string, p *decimal.Decimal) decimal.Decimal {
		if p == nil {
			return decimal.Zero
		}
		if p.IsNegative() {
			res.Warnings = append(res.Warnings, domain.Warning{Kind: domain.DomainViolation, Field: field, Message: "negative value clamped to 0"})
			return decimal.Zero
		}
		return *p
	}
	income := nonNeg("expected_annual_income", in.ExpectedAnnualIncome)
	expenses := nonNeg("deductible_expenses", in.DeductibleExpenses)
	adjustments := nonNeg("other_adjustments", in.OtherAdjustments)
	credits := nonNeg("credits", in.Credits)

	est, err := c.Estimator.estimate(status, income, expenses.Add(adjustments), decimal.Zero)
	if err != nil {
		return nil, err
	}
	totalTax := domain.MaxZero(est.FederalTax.Add(est.SelfEmploymentTax).Sub(credits))

	requiredAnnual := totalTax.Mul(decimal.RequireFromString("0.90"))
	if in.PriorYearTotalTax != nil {
		prior := nonNeg("prior_year_total_tax", in.PriorYearTotalTax)
		requiredAnnual = decimal.Max(requiredAnnual, prior)
		if in.SafeHarbor == domain.SafeHarbor110HighInc {
			requiredAnnual = decimal.Max(requiredAnnual, prior.Mul(decimal.RequireFromString("1.10")))
		}
	}

	paid := decimal.Zero
	for _, p := range in.PriorPayments {
		if err := p.Validate(); err != nil {
			res.Warnings = append(res.Warnings, domain.Warning{Kind: domain.DomainViolation, Field: "prior_payments", Message: err.Error() + "; payment ignored"})
			continue
		}
		if p.Amount.IsNegative() {
			res.Warnings = append(res.Warnings, domain.Warning{Kind: domain.DomainViolation, Field: "prior_payments", Message: fmt.Sprintf("quarter %d: negative amount clamped to 0", p.Quarter)})
			p.Amount = decimal.Zero
		}
		paid = paid.Add(p.Amount)
		res.Payments = append(res.Payments, p)
	}
	remaining := domain.MaxZero(requiredAnnual.Sub(paid))
	installmentsLeft := 4 - len(res.Payments)
	if installmentsLeft < 1 {
		installmentsLeft = 1
	}

	res.Estimate = domain.TaxEstimate{
		TaxableIncome:     c.Rounding.Round(est.TaxableIncome),
		FederalTax:        c.Rounding.Round(est.FederalTax),
		SelfEmploymentTax: c.Rounding.Round(est.SelfEmploymentTax),
		QuarterlyPayment:  c.Rounding.Round(est.QuarterlyPayment),
	}
	res.TotalTax = c.Rounding.Round(totalTax)
	res.RequiredAnnual = c.Rounding.Round(requiredAnnual)
	res.QuarterlyBase = c.Rounding.Round(requiredAnnual.Div(decimal.NewFromInt(4)))
	res.PaidSoFar = c.Rounding.Round(paid)
	res.Remaining = c.Rounding.Round(remaining)
	res.NextVoucher = c.Rounding.Round(remaining.Div(decimal.NewFromInt(int64(installmentsLeft))))

	logger.Debugf("1040-ES: total tax %s, required annual %s, paid %s, next voucher %s",
		res.TotalTax, res.RequiredAnnual, res.PaidSoFar, res.NextVoucher)
	return res, nil
}
