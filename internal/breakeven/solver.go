package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/rgehrsitz/estax/internal/transform"
	"github.com/shopspring/decimal"
)

var (
	one = decimal.NewFromInt(1)
	two = decimal.NewFromInt(2)
	// installment searches stop narrowing below one cent
	minWidth = decimal.New(1, -2)
)

// Solver performs break-even searches over worksheet inputs
type Solver struct {
	Engine  *calculation.WorksheetEngine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.WorksheetEngine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.WorksheetEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve runs a break-even search for the given request
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Constraints.Validate(req.Goal); err != nil {
		return nil, err
	}
	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}

	switch req.Target {
	case TargetIncome, TargetSEProfit, TargetWithholding:
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target: %s", req.Target),
		}
	}

	base, err := s.evaluate(req.Inputs)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "failed to compute baseline worksheet", Cause: err}
	}
	lo, hi := s.bounds(req, base)

	switch req.Goal {
	case GoalPaymentThreshold:
		return s.solveThreshold(ctx, req, lo, hi)
	case GoalMatchInstallment:
		return s.solveInstallment(ctx, req, lo, hi)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported goal: %s", req.Goal),
		}
	}
}

// solveThreshold bisects on the require-payments decision, then walks the
// final interval in whole dollars to report the first value past the flip.
func (s *Solver) solveThreshold(ctx context.Context, req SolveRequest, lo, hi decimal.Decimal) (*SolveResult, error) {
	result := &SolveResult{Request: req, Baseline: baseline(req.Inputs, req.Target)}

	low, err := s.at(req, lo)
	if err != nil {
		return nil, err
	}
	high, err := s.at(req, hi)
	if err != nil {
		return nil, err
	}
	startRequired := low.Decision.RequirePayments
	if high.Decision.RequirePayments == startRequired {
		result.Value = lo
		result.Result = low
		result.ConvergenceInfo = fmt.Sprintf("payments %s across the whole range %s to %s",
			requiredWord(startRequired), domain.FormatCurrency(lo), domain.FormatCurrency(hi))
		return result, nil
	}
	flipped := func(r *domain.WorksheetResult) bool { return r.Decision.RequirePayments != startRequired }

	for result.Iterations < req.MaxIterations && hi.Sub(lo).GreaterThanOrEqual(req.Tolerance) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two)
		r, err := s.at(req, mid)
		if err != nil {
			return nil, err
		}
		if flipped(r) {
			hi = mid
		} else {
			lo = mid
		}
	}
	if hi.Sub(lo).GreaterThanOrEqual(req.Tolerance) {
		return nil, &BreakEvenError{
			Operation: "solve_threshold",
			Message:   fmt.Sprintf("search did not converge after %d iterations", req.MaxIterations),
		}
	}

	for v := lo.Floor(); v.LessThanOrEqual(hi.Ceil()); v = v.Add(one) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := s.at(req, v)
		if err != nil {
			return nil, err
		}
		if flipped(r) {
			result.Value = v
			result.Result = r
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("payments become %s at %s %s",
				requiredWord(!startRequired), req.Target, domain.FormatCurrency(v))
			return result, nil
		}
	}

	return nil, &BreakEvenError{
		Operation: "solve_threshold",
		Message:   fmt.Sprintf("no whole-dollar value between %s and %s flips the decision", lo.String(), hi.String()),
	}
}

// solveInstallment bisects on the line 15 installment, which moves
// monotonically with each target.
func (s *Solver) solveInstallment(ctx context.Context, req SolveRequest, lo, hi decimal.Decimal) (*SolveResult, error) {
	result := &SolveResult{Request: req, Baseline: baseline(req.Inputs, req.Target)}
	target := *req.Constraints.TargetInstallment

	low, err := s.at(req, lo)
	if err != nil {
		return nil, err
	}
	high, err := s.at(req, hi)
	if err != nil {
		return nil, err
	}
	increasing := high.Line15.GreaterThanOrEqual(low.Line15)
	floor, ceiling := decimal.Min(low.Line15, high.Line15), decimal.Max(low.Line15, high.Line15)
	if target.LessThan(floor.Sub(req.Tolerance)) || target.GreaterThan(ceiling.Add(req.Tolerance)) {
		closest, r := lo, low
		if target.Sub(high.Line15).Abs().LessThan(target.Sub(low.Line15).Abs()) {
			closest, r = hi, high
		}
		result.Value = closest
		result.Result = r
		result.ConvergenceInfo = fmt.Sprintf("target installment %s outside reachable range %s to %s",
			domain.FormatCurrency(target), domain.FormatCurrency(floor), domain.FormatCurrency(ceiling))
		return result, nil
	}

	var best *domain.WorksheetResult
	var bestValue decimal.Decimal
	for result.Iterations < req.MaxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two).Round(2)
		r, err := s.at(req, mid)
		if err != nil {
			return nil, err
		}
		diff := r.Line15.Sub(target)
		if best == nil || diff.Abs().LessThan(best.Line15.Sub(target).Abs()) {
			best, bestValue = r, mid
		}
		if diff.Abs().LessThanOrEqual(req.Tolerance) {
			result.Value = mid
			result.Result = r
			result.Success = true
			result.ConvergenceInfo = fmt.Sprintf("line 15 within %s of target", domain.FormatCurrency(req.Tolerance))
			return result, nil
		}
		if diff.IsNegative() == increasing {
			lo = mid
		} else {
			hi = mid
		}
		if hi.Sub(lo).LessThan(minWidth) {
			break
		}
	}

	result.Value = bestValue
	result.Result = best
	result.ConvergenceInfo = fmt.Sprintf("closest line 15 is %s after %d iterations",
		domain.FormatCurrency(best.Line15), result.Iterations)
	return result, nil
}

// bounds returns the search range. Without constraints incomes run from zero
// to Options.MaxSearch and withholding from zero to the baseline line 11c.
func (s *Solver) bounds(req SolveRequest, base *domain.WorksheetResult) (decimal.Decimal, decimal.Decimal) {
	lo := decimal.Zero
	if req.Constraints.Min != nil {
		lo = *req.Constraints.Min
	}
	var hi decimal.Decimal
	switch {
	case req.Constraints.Max != nil:
		hi = *req.Constraints.Max
	case req.Target == TargetWithholding:
		hi = domain.MaxZero(base.Line11c)
	default:
		hi = s.Options.MaxSearch
	}
	if hi.LessThan(lo) {
		hi = lo
	}
	return lo, hi
}

func (s *Solver) at(req SolveRequest, v decimal.Decimal) (*domain.WorksheetResult, error) {
	in, err := Apply(req.Inputs, req.Target, v)
	if err != nil {
		return nil, &BreakEvenError{Operation: "evaluate", Message: "failed to apply target", Cause: err}
	}
	r, err := s.evaluate(in)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("failed to compute worksheet at %s %s", req.Target, v.StringFixed(2)),
			Cause:     err,
		}
	}
	return r, nil
}

func (s *Solver) evaluate(in domain.WorksheetInputs) (*domain.WorksheetResult, error) {
	if s.Engine == nil {
		return nil, &BreakEvenError{Operation: "evaluate", Message: "solver has no worksheet engine"}
	}
	return s.Engine.Compute(in)
}

// Transform returns the input transform that sets target to v.
func Transform(target SolveTarget, v decimal.Decimal) transform.InputTransform {
	switch target {
	case TargetIncome:
		return &transform.SetGrossIncome{Amount: v}
	case TargetSEProfit:
		return &transform.SetSEProfit{Amount: v}
	case TargetWithholding:
		return &transform.SetWithholding{Amount: v}
	}
	return nil
}

// Apply returns a copy of in with the target set to v.
func Apply(in domain.WorksheetInputs, target SolveTarget, v decimal.Decimal) (domain.WorksheetInputs, error) {
	return transform.ApplyTransforms(in, []transform.InputTransform{Transform(target, v)})
}

func baseline(in domain.WorksheetInputs, target SolveTarget) decimal.Decimal {
	switch target {
	case TargetIncome:
		return domain.Deref(in.ProjectedGrossIncome)
	case TargetSEProfit:
		return domain.Deref(in.SelfEmploymentNetProfit)
	case TargetWithholding:
		return domain.Deref(in.IncomeTaxWithheld)
	}
	return decimal.Zero
}

func requiredWord(required bool) string {
	if required {
		return "required"
	}
	return "not required"
}
