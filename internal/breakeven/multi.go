package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
)

// ThresholdReport collects payment thresholds for several targets
type ThresholdReport struct {
	Results         []SolveResult `json:"results"`
	Recommendations []string      `json:"recommendations"`
}

// AnalyzeThresholds finds the payment threshold for every applicable target.
// The self-employment target is skipped when in carries no SE profit.
func (s *Solver) AnalyzeThresholds(ctx context.Context, in domain.WorksheetInputs, constraints Constraints) (*ThresholdReport, error) {
	if err := constraints.Validate(GoalPaymentThreshold); err != nil {
		return nil, err
	}

	report := &ThresholdReport{}
	for _, target := range SolveTargets {
		if target == TargetSEProfit && in.SelfEmploymentNetProfit == nil {
			continue
		}
		req := SolveRequest{
			Inputs:        in,
			Target:        target,
			Goal:          GoalPaymentThreshold,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}
		result, err := s.Solve(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			report.Recommendations = append(report.Recommendations, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		report.Results = append(report.Results, *result)
	}

	if len(report.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "analyze_thresholds",
			Message:   "no threshold searches completed",
		}
	}
	report.Recommendations = append(report.Recommendations, recommendations(report.Results)...)
	return report, nil
}

func recommendations(results []SolveResult) []string {
	var recs []string
	for _, r := range results {
		if !r.Success {
			continue
		}
		delta := r.Delta()
		switch {
		case r.Request.Target == TargetWithholding && delta.IsPositive():
			recs = append(recs, fmt.Sprintf("Withholding %s more removes the need for estimated payments",
				domain.FormatCurrency(delta)))
		case r.Request.Target != TargetWithholding && delta.IsPositive():
			recs = append(recs, fmt.Sprintf("%s can rise by %s before estimated payments are required",
				targetLabel(r.Request.Target), domain.FormatCurrency(delta)))
		case r.Request.Target != TargetWithholding && !delta.IsPositive():
			recs = append(recs, fmt.Sprintf("%s would need to fall by %s to avoid estimated payments",
				targetLabel(r.Request.Target), domain.FormatCurrency(delta.Neg())))
		}
	}
	return recs
}

func targetLabel(t SolveTarget) string {
	switch t {
	case TargetIncome:
		return "Gross income"
	case TargetSEProfit:
		return "Self-employment profit"
	case TargetWithholding:
		return "Withholding"
	}
	return string(t)
}
