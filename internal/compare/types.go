package compare

import (
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one estimator strategy's summary with its deltas from the base
type ComparisonResult struct {
	Strategy string                 `json:"strategy"`
	Summary  domain.EstimateSummary `json:"summary"`

	// Key Metrics
	TotalTax         decimal.Decimal `json:"totalTax"`
	AnnualRequired   decimal.Decimal `json:"annualRequired"`
	QuarterlyPayment decimal.Decimal `json:"quarterlyPayment"`
	RequirePayments  bool            `json:"requirePayments"`

	// Comparison to Base
	TotalTaxDiffFromBase  decimal.Decimal `json:"totalTaxDiffFromBase"`
	TotalTaxPctFromBase   decimal.Decimal `json:"totalTaxPctFromBase"`
	AnnualDiffFromBase    decimal.Decimal `json:"annualDiffFromBase"`
	QuarterlyDiffFromBase decimal.Decimal `json:"quarterlyDiffFromBase"`
}

// ComparisonSet is every strategy run over one household
type ComparisonSet struct {
	BaseStrategy       string                  `json:"baseStrategy"`
	Household          domain.HouseholdSummary `json:"household"`
	BaseResult         *ComparisonResult       `json:"baseResult"`
	AlternativeResults []ComparisonResult      `json:"alternativeResults"`
	Recommendations    []string                `json:"recommendations"`
	InputPath          string                  `json:"inputPath"`
}

// DivergenceThreshold is the total-tax difference, in percent of the base,
// above which a strategy is called out as diverging.
var DivergenceThreshold = decimal.NewFromInt(10)

// MetricsCalculator extracts comparison metrics from estimate summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics copies the headline figures of a summary
func (mc *MetricsCalculator) CalculateMetrics(summary domain.EstimateSummary) ComparisonResult {
	return ComparisonResult{
		Strategy:         summary.Strategy,
		Summary:          summary,
		TotalTax:         summary.TotalTax,
		AnnualRequired:   summary.AnnualRequired,
		QuarterlyPayment: summary.QuarterlyPayment,
		RequirePayments:  summary.RequirePayments,
	}
}

// CalculateComparison computes the deltas between a strategy and the base
func (mc *MetricsCalculator) CalculateComparison(alt, base ComparisonResult) ComparisonResult {
	alt.TotalTaxDiffFromBase = alt.TotalTax.Sub(base.TotalTax)
	if !base.TotalTax.IsZero() {
		alt.TotalTaxPctFromBase = alt.TotalTaxDiffFromBase.
			Div(base.TotalTax).
			Mul(decimal.NewFromInt(100))
	}
	alt.AnnualDiffFromBase = alt.AnnualRequired.Sub(base.AnnualRequired)
	alt.QuarterlyDiffFromBase = alt.QuarterlyPayment.Sub(base.QuarterlyPayment)
	return alt
}

// GenerateRecommendations creates observations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Lowest required payment
	lowest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].AnnualRequired.LessThan(lowest.AnnualRequired) {
			lowest = &compSet.AlternativeResults[i]
		}
	}
	if lowest != compSet.BaseResult {
		savings := compSet.BaseResult.AnnualRequired.Sub(lowest.AnnualRequired)
		recommendations = append(recommendations,
			"Lowest Required: "+lowest.Strategy+" asks for $"+savings.StringFixed(0)+
				" less per year than "+compSet.BaseStrategy)
	}

	// Most conservative total tax
	highest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		if compSet.AlternativeResults[i].TotalTax.GreaterThan(highest.TotalTax) {
			highest = &compSet.AlternativeResults[i]
		}
	}
	if highest != compSet.BaseResult {
		recommendations = append(recommendations,
			"Most Conservative: "+highest.Strategy+" estimates $"+highest.TotalTax.StringFixed(0)+" total tax")
	}

	for _, alt := range compSet.AlternativeResults {
		if alt.TotalTaxPctFromBase.Abs().GreaterThan(DivergenceThreshold) {
			recommendations = append(recommendations,
				"Divergence: "+alt.Strategy+" differs from "+compSet.BaseStrategy+" by "+
					alt.TotalTaxPctFromBase.StringFixed(1)+"% in total tax")
		}
	}

	return recommendations
}
