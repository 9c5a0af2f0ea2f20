package calculation

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxEstimator is the capability shared by the three estimated-tax computations.
// They are independent and are not expected to produce the same numbers.
type TaxEstimator interface {
	Name() string
	Summarize(hs domain.HouseholdSummary) (domain.EstimateSummary, error)
}

// Estimator names accepted by NewEstimator.
const (
	EstimatorWorksheet = "worksheet"
	EstimatorLegacy    = "legacy"
	EstimatorIrs1040Es = "irs1040es"
)

// EstimatorNames lists the available strategies in display order.
var EstimatorNames = []string{EstimatorWorksheet, EstimatorLegacy, EstimatorIrs1040Es}

// NewEstimator creates a TaxEstimator by name
func NewEstimator(name string, rules *domain.RuleBook) (TaxEstimator, error) {
	if rules == nil {
		return nil, &domain.ConfigurationError{Reason: "rule book not loaded"}
	}
	switch name {
	case EstimatorWorksheet:
		return &WorksheetEstimator{Engine: NewWorksheetEngine(rules)}, nil
	case EstimatorLegacy:
		return &LegacyEstimator{Estimator: NewLegacyTaxEstimator(rules.LegacyEstimator)}, nil
	case EstimatorIrs1040Es:
		return &Irs1040EsEstimator{Computation: NewIrs1040EsComputation(rules.LegacyEstimator)}, nil
	default:
		return nil, fmt.Errorf("unknown estimator %q (want one of %v)", name, EstimatorNames)
	}
}

// netProfit is gross income less business expenses, the SE profit every strategy starts from.
func netProfit(hs domain.HouseholdSummary) decimal.Decimal {
	return hs.GrossIncome.Sub(hs.BusinessExpenses)
}

// WorksheetEstimator summarizes the Form 1040-ES worksheet
type WorksheetEstimator struct {
	Engine *WorksheetEngine
}

func (we *WorksheetEstimator) Name() string { return EstimatorWorksheet }

// Inputs maps a household onto worksheet inputs: business profit is both gross
// income and SE profit, other deductions are above-the-line adjustments, and the
// standard deduction applies.
func (we *WorksheetEstimator) Inputs(hs domain.HouseholdSummary) domain.WorksheetInputs {
	profit := netProfit(hs)
	gross := domain.MaxZero(profit)
	other, credits, withheld := hs.OtherDeductions, hs.Credits, hs.Withholding
	return domain.WorksheetInputs{
		TaxYear:                 hs.TaxYear,
		FilingStatus:            hs.FilingStatus,
		ProjectedGrossIncome:    &gross,
		AboveLineAdjustments:    &other,
		SelfEmploymentNetProfit: &profit,
		UseStandardDeduction:    true,
		NonrefundableCredits:    &credits,
		IncomeTaxWithheld:       &withheld,
		PriorYearTotalTax:       hs.PriorYearTotalTax,
		HighIncomePriorYear:     hs.HighIncome,
	}
}

func (we *WorksheetEstimator) Summarize(hs domain.HouseholdSummary) (domain.EstimateSummary, error) {
	res, err := we.Engine.Compute(we.Inputs(hs))
	if err != nil {
		return domain.EstimateSummary{}, err
	}
	s := domain.EstimateSummary{
		Strategy:         we.Name(),
		TotalTax:         res.Line11c,
		AnnualRequired:   res.Line12c,
		QuarterlyPayment: res.Line15,
		RequirePayments:  res.Decision.RequirePayments,
		Notes:            []string{res.Decision.Reason},
	}
	for _, m := range res.MissingInputs {
		s.Notes = append(s.Notes, "missing "+m)
	}
	return s, nil
}

// LegacyEstimator summarizes the dashboard estimator
type LegacyEstimator struct {
	Estimator *LegacyTaxEstimator
}

func (le *LegacyEstimator) Name() string { return EstimatorLegacy }

func (le *LegacyEstimator) Summarize(hs domain.HouseholdSummary) (domain.EstimateSummary, error) {
	status, err := domain.LegacyStatusFor(hs.FilingStatus)
	if err != nil {
		return domain.EstimateSummary{}, err
	}
	est, err := le.Estimator.Estimate(status, hs.GrossIncome, hs.BusinessExpenses, hs.OtherDeductions)
	if err != nil {
		return domain.EstimateSummary{}, err
	}
	total := est.TotalTax()
	return domain.EstimateSummary{
		Strategy:         le.Name(),
		TotalTax:         total,
		AnnualRequired:   total,
		QuarterlyPayment: est.QuarterlyPayment,
		RequirePayments:  est.QuarterlyPayment.IsPositive(),
		Notes: []string{
			"single-filer brackets for every status",
			"flat 15.3% SE tax without wage-base cap",
			"credits and withholding not considered",
		},
	}, nil
}

// Irs1040EsEstimator summarizes the legacy all-in-one 1040-ES computation
type Irs1040EsEstimator struct {
	Computation *Irs1040EsComputation
}

func (ie *Irs1040EsEstimator) Name() string { return EstimatorIrs1040Es }

func (ie *Irs1040EsEstimator) Summarize(hs domain.HouseholdSummary) (domain.EstimateSummary, error) {
	status, err := domain.LegacyStatusFor(hs.FilingStatus)
	if err != nil {
		return domain.EstimateSummary{}, err
	}
	gross, expenses, other, credits := hs.GrossIncome, hs.BusinessExpenses, hs.OtherDeductions, hs.Credits
	harbor := domain.SafeHarbor100Prior
	if hs.HighIncome {
		harbor = domain.SafeHarbor110HighInc
	}
	res, err := ie.Computation.Compute(domain.Irs1040EsInput{
		TaxYear:              hs.TaxYear,
		Taxpayer:             domain.Taxpayer{Name: "household"},
		FilingStatus:         status,
		ExpectedAnnualIncome: &gross,
		DeductibleExpenses:   &expenses,
		OtherAdjustments:     &other,
		Credits:              &credits,
		PriorYearTotalTax:    hs.PriorYearTotalTax,
		SafeHarbor:           harbor,
	})
	if err != nil {
		return domain.EstimateSummary{}, err
	}
	return domain.EstimateSummary{
		Strategy:         ie.Name(),
		TotalTax:         res.TotalTax,
		AnnualRequired:   res.RequiredAnnual,
		QuarterlyPayment: res.QuarterlyBase,
		RequirePayments:  res.RequiredAnnual.IsPositive(),
		Notes: []string{
			"required annual payment is the larger of the safe-harbor candidates",
			"withholding not considered",
		},
	}, nil
}
