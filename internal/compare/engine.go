package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/domain"
)

// CompareEngine runs several estimator strategies over one household
type CompareEngine struct {
	Rules             *domain.RuleBook
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(rules *domain.RuleBook) *CompareEngine {
	return &CompareEngine{
		Rules:             rules,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseStrategy string   // Strategy the others are compared against; worksheet when empty
	Strategies   []string // Alternatives; every other strategy when empty
}

// Compare summarizes the household with every requested strategy
func (ce *CompareEngine) Compare(ctx context.Context, hs domain.HouseholdSummary, options CompareOptions) (*ComparisonSet, error) {
	baseName := options.BaseStrategy
	if baseName == "" {
		baseName = calculation.EstimatorWorksheet
	}
	alternatives := options.Strategies
	if len(alternatives) == 0 {
		for _, n := range calculation.EstimatorNames {
			if n != baseName {
				alternatives = append(alternatives, n)
			}
		}
	}

	baseResult, err := ce.run(ctx, baseName, hs)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base strategy: %w", err)
	}

	results := []ComparisonResult{}
	for _, name := range alternatives {
		if name == baseName {
			continue
		}
		altResult, err := ce.run(ctx, name, hs)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate strategy %s: %w", name, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseStrategy:       baseName,
		Household:          hs,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, name string, hs domain.HouseholdSummary) (ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return ComparisonResult{}, err
	}
	est, err := calculation.NewEstimator(name, ce.Rules)
	if err != nil {
		return ComparisonResult{}, err
	}
	summary, err := est.Summarize(hs)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(summary), nil
}
