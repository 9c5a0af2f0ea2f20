package calculation

import (
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// SelfEmploymentTaxCalculator computes self-employment tax (Schedule SE, short form)
type SelfEmploymentTaxCalculator struct {
	NetEarningsFactor  decimal.Decimal
	SocialSecurityRate decimal.Decimal
	MedicareRate       decimal.Decimal
	Rounding           domain.RoundingMode
}

// NewSelfEmploymentTaxCalculator creates a calculator with the statutory rates
func NewSelfEmploymentTaxCalculator() *SelfEmploymentTaxCalculator {
	return &SelfEmploymentTaxCalculator{
		NetEarningsFactor:  decimal.RequireFromString("0.9235"),
		SocialSecurityRate: decimal.RequireFromString("0.124"),
		MedicareRate:       decimal.RequireFromString("0.029"),
		Rounding:           domain.RoundDollars,
	}
}

// Compute returns the SE tax breakdown for a net profit, rounded per the
// calculator's mode. A nil wage base drops the Social Security component
// entirely; there is no built-in default base.
func (sc *SelfEmploymentTaxCalculator) Compute(netProfit decimal.Decimal, ssWageBase *decimal.Decimal) domain.SelfEmploymentTaxDetail {
	raw := sc.compute(netProfit, ssWageBase)
	return domain.SelfEmploymentTaxDetail{
		SETax:         sc.Rounding.Round(raw.SETax),
		HalfDeduction: sc.Rounding.Round(raw.HalfDeduction),
		NetEarnings:   sc.Rounding.Round(raw.NetEarnings),
	}
}

// compute is Compute without rounding. The half deduction is taken from the
// unrounded SE tax.
func (sc *SelfEmploymentTaxCalculator) compute(netProfit decimal.Decimal, ssWageBase *decimal.Decimal) domain.SelfEmploymentTaxDetail {
	netEarnings := domain.MaxZero(netProfit).Mul(sc.NetEarningsFactor)

	ssTax := decimal.Zero
	if ssWageBase != nil {
		ssTax = decimal.Min(netEarnings, domain.MaxZero(*ssWageBase)).Mul(sc.SocialSecurityRate)
	}
	medicareTax := netEarnings.Mul(sc.MedicareRate)

	seTax := ssTax.Add(medicareTax)
	return domain.SelfEmploymentTaxDetail{
		SETax:         seTax,
		HalfDeduction: seTax.Div(decimal.NewFromInt(2)),
		NetEarnings:   netEarnings,
	}
}
