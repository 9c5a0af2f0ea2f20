package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RuleBook contains all regulatory data the engine needs, keyed by tax year.
// It is loaded from rules.yaml once at startup and is read-only afterwards.
type RuleBook struct {
	Metadata        RulesMetadata        `yaml:"metadata" json:"metadata"`
	Years           map[int]TaxYearRules `yaml:"years" json:"years"`
	LegacyEstimator LegacyEstimatorRules `yaml:"legacy_estimator" json:"legacy_estimator"`
}

// RulesMetadata describes the provenance of the rule data.
type RulesMetadata struct {
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"source" json:"source"`
}

// TaxYearRules holds the per-year schedules and thresholds.
type TaxYearRules struct {
	Year              int                              `yaml:"year" json:"year"`
	StandardDeduction map[FilingStatus]decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	Schedules         map[FilingStatus][]RateBracket   `yaml:"schedules" json:"schedules"`
	// SSWageBase is the Social Security wage base for the year. Nil means unknown.
	SSWageBase *decimal.Decimal `yaml:"ss_wage_base" json:"ss_wage_base,omitempty"`
}

// RateBracket is one marginal-rate tier. Base is the total tax accumulated
// up to Lower, precomputed in the rule data.
type RateBracket struct {
	Lower decimal.Decimal `yaml:"lower" json:"lower"`
	// Upper is inclusive; nil marks the unbounded top bracket.
	Upper *decimal.Decimal `yaml:"upper" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
	Base  decimal.Decimal  `yaml:"base" json:"base"`
}

// Unbounded reports whether the bracket has no upper bound.
func (b RateBracket) Unbounded() bool { return b.Upper == nil }

// Contains reports whether income falls inside the bracket's inclusive upper bound.
func (b RateBracket) Contains(income decimal.Decimal) bool {
	return b.Upper == nil || income.LessThanOrEqual(*b.Upper)
}

// LegacyEstimatorRules is the simplified table used by the dashboard estimator.
type LegacyEstimatorRules struct {
	NetEarningsFactor decimal.Decimal `yaml:"net_earnings_factor" json:"net_earnings_factor"`
	SETaxRate         decimal.Decimal `yaml:"se_tax_rate" json:"se_tax_rate"`
	Brackets          []SimpleBracket `yaml:"brackets_single" json:"brackets_single"`
}

// SimpleBracket is an upper bound (nil = unbounded) and a marginal rate.
type SimpleBracket struct {
	UpTo *decimal.Decimal `yaml:"up_to" json:"up_to,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Year returns the rules for a tax year.
func (rb *RuleBook) Year(year int) (*TaxYearRules, error) {
	if rb == nil {
		return nil, &ConfigurationError{Year: year, Reason: "rule book not loaded"}
	}
	r, ok := rb.Years[year]
	if !ok {
		return nil, &ConfigurationError{Year: year, Err: ErrUnknownTaxYear}
	}
	return &r, nil
}

// AvailableYears returns the configured tax years in ascending order.
func (rb *RuleBook) AvailableYears() []int {
	years := make([]int, 0, len(rb.Years))
	for y := range rb.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// LatestYear returns the most recent configured tax year, or 0 when empty.
func (rb *RuleBook) LatestYear() int {
	years := rb.AvailableYears()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// Schedule returns the rate schedule for status, honoring a partial override.
func (r *TaxYearRules) Schedule(status FilingStatus, override map[FilingStatus][]RateBracket) ([]RateBracket, error) {
	if !status.Valid() {
		return nil, &ConfigurationError{Year: r.Year, Status: status, Err: ErrInvalidFilingStatus}
	}
	if s, ok := override[status]; ok && len(s) > 0 {
		return s, nil
	}
	s, ok := r.Schedules[status]
	if !ok || len(s) == 0 {
		return nil, &ConfigurationError{Year: r.Year, Status: status, Reason: "no rate schedule"}
	}
	return s, nil
}

// StandardDeductionFor returns the configured standard deduction for status.
func (r *TaxYearRules) StandardDeductionFor(status FilingStatus) (decimal.Decimal, error) {
	d, ok := r.StandardDeduction[status]
	if !ok {
		return decimal.Zero, &ConfigurationError{Year: r.Year, Status: status, Reason: "no standard deduction"}
	}
	return d, nil
}
