package calculation

import (
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// SafeHarborCalculator computes the prior-year safe harbor amount (worksheet line 12b)
type SafeHarborCalculator struct {
	// HighIncomeFactor applies when prior-year AGI exceeded the high-income threshold.
	HighIncomeFactor decimal.Decimal
	Rounding         domain.RoundingMode
}

// NewSafeHarborCalculator creates a calculator using the 110% high-income rule
func NewSafeHarborCalculator() *SafeHarborCalculator {
	return &SafeHarborCalculator{
		HighIncomeFactor: decimal.RequireFromString("1.10"),
		Rounding:         domain.RoundDollars,
	}
}

// Compute returns max(0, prior * (1.10 if highIncome) - additional Medicare withholding).
// Negative prior-year tax is treated as zero.
func (shc *SafeHarborCalculator) Compute(priorYearTotalTax decimal.Decimal, highIncome bool, additionalMedicareWithholding decimal.Decimal) decimal.Decimal {
	return shc.Rounding.Round(shc.compute(priorYearTotalTax, highIncome, additionalMedicareWithholding))
}

func (shc *SafeHarborCalculator) compute(priorYearTotalTax decimal.Decimal, highIncome bool, additionalMedicareWithholding decimal.Decimal) decimal.Decimal {
	required := domain.MaxZero(priorYearTotalTax)
	if highIncome {
		required = required.Mul(shc.HighIncomeFactor)
	}
	return domain.MaxZero(required.Sub(domain.MaxZero(additionalMedicareWithholding)))
}
