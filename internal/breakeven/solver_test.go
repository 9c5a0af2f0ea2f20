package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSolver(t *testing.T) *Solver {
	t.Helper()
	rules, err := config.DefaultRules()
	require.NoError(t, err)
	return NewDefaultSolver(calculation.NewWorksheetEngine(rules))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Sole proprietor with $50,000 profit and a $5,000 prior-year tax.
func scenarioB() domain.WorksheetInputs {
	return domain.WorksheetInputs{
		TaxYear:                 2024,
		FilingStatus:            domain.Single,
		ProjectedGrossIncome:    domain.Dec(50000),
		SelfEmploymentNetProfit: domain.Dec(50000),
		UseStandardDeduction:    true,
		PriorYearTotalTax:       domain.Dec(5000),
	}
}

func wagesOnly(gross int64) domain.WorksheetInputs {
	return domain.WorksheetInputs{
		TaxYear:              2024,
		FilingStatus:         domain.Single,
		ProjectedGrossIncome: domain.Dec(gross),
		UseStandardDeduction: true,
		PriorYearTotalTax:    domain.Dec(9000),
	}
}

func TestNewSolver(t *testing.T) {
	engine := &calculation.WorksheetEngine{}
	options := DefaultSolverOptions()

	solver := NewSolver(engine, options)

	require.NotNil(t, solver)
	assert.Same(t, engine, solver.Engine)
	assert.Equal(t, options, solver.Options)
}

func TestNewDefaultSolver(t *testing.T) {
	engine := &calculation.WorksheetEngine{}

	solver := NewDefaultSolver(engine)

	require.NotNil(t, solver)
	assert.Same(t, engine, solver.Engine)
	assert.Equal(t, DefaultSolverOptions().MaxIterations, solver.Options.MaxIterations)
}

func TestSolver_Solve_WithholdingThreshold(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs: scenarioB(),
		Target: TargetWithholding,
		Goal:   GoalPaymentThreshold,
	})
	require.NoError(t, err)

	// Line 14a is 5000 minus withholding, so payments stop at exactly $5,000.
	assert.True(t, result.Success)
	assert.True(t, dec("5000").Equal(result.Value), "got %s", result.Value)
	assert.False(t, result.Result.Decision.RequirePayments)
	assert.True(t, result.Delta().Equal(dec("5000")))
	assert.Contains(t, result.ConvergenceInfo, "not required")
}

func TestSolver_Solve_IncomeThreshold(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs: wagesOnly(20000),
		Target: TargetIncome,
		Goal:   GoalPaymentThreshold,
	})
	require.NoError(t, err)

	// Taxable 9995 gives 999.50 of tax, which rounds to the $1,000 threshold.
	assert.True(t, result.Success)
	assert.True(t, dec("24595").Equal(result.Value), "got %s", result.Value)
	assert.True(t, result.Result.Decision.RequirePayments)
	assert.True(t, result.Result.Line14b.Equal(dec("1000")))
	assert.True(t, result.Delta().Equal(dec("4595")))

	in, err := Apply(wagesOnly(20000), TargetIncome, dec("24594"))
	require.NoError(t, err)
	below, err := solver.Engine.Compute(in)
	require.NoError(t, err)
	assert.False(t, below.Decision.RequirePayments)
}

func TestSolver_Solve_SEProfitThresholdFlipsAtValue(t *testing.T) {
	solver := newTestSolver(t)
	in := scenarioB()

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs: in,
		Target: TargetSEProfit,
		Goal:   GoalPaymentThreshold,
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.Result.Decision.RequirePayments)
	assert.True(t, result.Value.LessThan(dec("50000")))

	prev, err := Apply(in, TargetSEProfit, result.Value.Sub(decimal.NewFromInt(1)))
	require.NoError(t, err)
	before, err := solver.Engine.Compute(prev)
	require.NoError(t, err)
	assert.False(t, before.Decision.RequirePayments)
}

func TestSolver_Solve_NoFlipInRange(t *testing.T) {
	solver := newTestSolver(t)
	in := scenarioB()
	in.PriorYearTotalTax = nil

	// Without a prior-year tax line 12c is zero and payments are never required.
	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs: in,
		Target: TargetIncome,
		Goal:   GoalPaymentThreshold,
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ConvergenceInfo, "across the whole range")
}

func TestSolver_Solve_MatchInstallment(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs:      scenarioB(),
		Target:      TargetWithholding,
		Goal:        GoalMatchInstallment,
		Constraints: Constraints{TargetInstallment: domain.Dec(1000)},
	})
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.True(t, result.Result.Line15.Sub(dec("1000")).Abs().LessThanOrEqual(dec("1")),
		"line 15 %s", result.Result.Line15)
	assert.True(t, result.Value.Sub(dec("1000")).Abs().LessThanOrEqual(dec("10")), "value %s", result.Value)
}

func TestSolver_Solve_MatchInstallmentOutOfRange(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs:      scenarioB(),
		Target:      TargetWithholding,
		Goal:        GoalMatchInstallment,
		Constraints: Constraints{TargetInstallment: domain.Dec(5000)},
	})
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.ConvergenceInfo, "outside reachable range")
	assert.True(t, result.Value.IsZero())
}

func TestSolver_Solve_InvalidConstraints(t *testing.T) {
	solver := newTestSolver(t)

	_, err := solver.Solve(context.Background(), SolveRequest{
		Inputs: scenarioB(),
		Target: TargetWithholding,
		Goal:   GoalMatchInstallment,
	})
	var be *BreakEvenError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "validate_constraints", be.Operation)
}

func TestSolver_Solve_UnsupportedTargetAndGoal(t *testing.T) {
	solver := newTestSolver(t)

	_, err := solver.Solve(context.Background(), SolveRequest{Inputs: scenarioB(), Target: "bonus", Goal: GoalPaymentThreshold})
	assert.ErrorContains(t, err, "unsupported target")

	_, err = solver.Solve(context.Background(), SolveRequest{Inputs: scenarioB(), Target: TargetIncome, Goal: "minimize"})
	assert.ErrorContains(t, err, "unsupported goal")
}

func TestSolver_Solve_EngineErrors(t *testing.T) {
	in := scenarioB()
	in.FilingStatus = "widowed"

	_, err := newTestSolver(t).Solve(context.Background(), SolveRequest{Inputs: in, Target: TargetIncome, Goal: GoalPaymentThreshold})
	assert.True(t, errors.Is(err, domain.ErrInvalidFilingStatus))

	_, err = NewDefaultSolver(nil).Solve(context.Background(), SolveRequest{Inputs: scenarioB(), Target: TargetIncome, Goal: GoalPaymentThreshold})
	assert.ErrorContains(t, err, "no worksheet engine")
}

func TestSolver_Solve_ContextCancellation(t *testing.T) {
	solver := newTestSolver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := solver.Solve(ctx, SolveRequest{
		Inputs: scenarioB(),
		Target: TargetWithholding,
		Goal:   GoalPaymentThreshold,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolver_Solve_MaxIterationsExceeded(t *testing.T) {
	solver := newTestSolver(t)

	_, err := solver.Solve(context.Background(), SolveRequest{
		Inputs:        wagesOnly(20000),
		Target:        TargetIncome,
		Goal:          GoalPaymentThreshold,
		MaxIterations: 2,
	})
	assert.ErrorContains(t, err, "did not converge after 2 iterations")
}

func TestSolver_Solve_HonorsBounds(t *testing.T) {
	solver := newTestSolver(t)

	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs:      wagesOnly(20000),
		Target:      TargetIncome,
		Goal:        GoalPaymentThreshold,
		Constraints: Constraints{Min: domain.Dec(30000), Max: domain.Dec(90000)},
	})
	require.NoError(t, err)
	assert.False(t, result.Success, "payments are already required at the lower bound")
	assert.True(t, result.Value.Equal(dec("30000")))
}

func TestApply(t *testing.T) {
	in := domain.WorksheetInputs{
		ProjectedGrossIncome:    domain.Dec(80000),
		SelfEmploymentNetProfit: domain.Dec(30000),
		IncomeTaxWithheld:       domain.Dec(4000),
	}

	se, err := Apply(in, TargetSEProfit, dec("45000"))
	require.NoError(t, err)
	assert.True(t, domain.Deref(se.ProjectedGrossIncome).Equal(dec("95000")))
	assert.True(t, domain.Deref(se.SelfEmploymentNetProfit).Equal(dec("45000")))

	inc, err := Apply(in, TargetIncome, dec("10000"))
	require.NoError(t, err)
	assert.True(t, domain.Deref(inc.ProjectedGrossIncome).Equal(dec("10000")))

	wh, err := Apply(in, TargetWithholding, dec("0"))
	require.NoError(t, err)
	assert.True(t, domain.Deref(wh.IncomeTaxWithheld).IsZero())

	_, err = Apply(in, TargetWithholding, dec("-1"))
	assert.ErrorContains(t, err, "set_withholding validation failed")

	_, err = Apply(in, "bonus", dec("1"))
	assert.ErrorContains(t, err, "transform at index 0 is nil")

	// The base inputs are untouched.
	assert.True(t, domain.Deref(in.ProjectedGrossIncome).Equal(dec("80000")))
	assert.True(t, domain.Deref(in.IncomeTaxWithheld).Equal(dec("4000")))
}

func TestSolver_AnalyzeThresholds(t *testing.T) {
	solver := newTestSolver(t)

	report, err := solver.AnalyzeThresholds(context.Background(), scenarioB(), Constraints{})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, TargetWithholding, report.Results[2].Request.Target)
	assert.Contains(t, report.Recommendations, "Withholding $5000.00 more removes the need for estimated payments")

	report, err = solver.AnalyzeThresholds(context.Background(), wagesOnly(20000), Constraints{})
	require.NoError(t, err)
	require.Len(t, report.Results, 2, "no SE profit means no SE target")
	assert.Contains(t, report.Recommendations, "Gross income can rise by $4595.00 before estimated payments are required")
}

func TestFormatters(t *testing.T) {
	solver := newTestSolver(t)
	result, err := solver.Solve(context.Background(), SolveRequest{
		Inputs:      scenarioB(),
		Target:      TargetWithholding,
		Goal:        GoalMatchInstallment,
		Constraints: Constraints{TargetInstallment: domain.Dec(1000)},
	})
	require.NoError(t, err)

	tf := &TableFormatter{}
	out := tf.Format(result)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "Target:      Withholding")
	assert.Contains(t, out, "TARGET INSTALLMENT MATCH")
	assert.Contains(t, out, "Current value:  $0.00")

	report, err := solver.AnalyzeThresholds(context.Background(), scenarioB(), Constraints{})
	require.NoError(t, err)
	table := tf.FormatReport(report)
	assert.Contains(t, table, "ESTIMATED PAYMENT THRESHOLDS")
	assert.Contains(t, table, "RECOMMENDATIONS")
	assert.Contains(t, table, "$5.0K")

	js, err := (&JSONFormatter{Pretty: true}).Format(result)
	require.NoError(t, err)
	assert.Contains(t, js, `"goal": "match_installment"`)
	assert.Contains(t, js, `"success": true`)

	js, err = (&JSONFormatter{}).FormatReport(report)
	require.NoError(t, err)
	assert.Contains(t, js, `"recommendations":[`)
}
