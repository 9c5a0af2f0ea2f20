package breakeven

import (
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// SolveTarget names the worksheet input the solver varies
type SolveTarget string

const (
	TargetIncome      SolveTarget = "income"      // projected gross income
	TargetSEProfit    SolveTarget = "se_profit"   // self-employment net profit (gross moves with it)
	TargetWithholding SolveTarget = "withholding" // federal income tax withheld
)

// SolveTargets lists the supported targets in display order.
var SolveTargets = []SolveTarget{TargetIncome, TargetSEProfit, TargetWithholding}

// ParseSolveTarget validates a target name.
func ParseSolveTarget(s string) (SolveTarget, error) {
	for _, t := range SolveTargets {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &BreakEvenError{Operation: "parse_target", Message: "unknown target: " + s}
}

// SolveGoal names what the solver is looking for
type SolveGoal string

const (
	// GoalPaymentThreshold finds the whole-dollar value at which the
	// require-payments decision flips.
	GoalPaymentThreshold SolveGoal = "payment_threshold"
	// GoalMatchInstallment finds the value whose line 15 installment matches
	// Constraints.TargetInstallment.
	GoalMatchInstallment SolveGoal = "match_installment"
)

// ParseSolveGoal validates a goal name.
func ParseSolveGoal(s string) (SolveGoal, error) {
	switch SolveGoal(s) {
	case GoalPaymentThreshold, GoalMatchInstallment:
		return SolveGoal(s), nil
	}
	return "", &BreakEvenError{Operation: "parse_goal", Message: "unknown goal: " + s}
}

// Constraints bound the search range and carry goal parameters
type Constraints struct {
	Min               *decimal.Decimal `json:"min,omitempty"`
	Max               *decimal.Decimal `json:"max,omitempty"`
	TargetInstallment *decimal.Decimal `json:"target_installment,omitempty"`
}

// SolveRequest describes one break-even search
type SolveRequest struct {
	Inputs        domain.WorksheetInputs `json:"-"`
	Target        SolveTarget            `json:"target"`
	Goal          SolveGoal              `json:"goal"`
	Constraints   Constraints            `json:"constraints"`
	MaxIterations int                    `json:"max_iterations"`
	Tolerance     decimal.Decimal        `json:"tolerance"` // search width for thresholds, line 15 error for installments
}

// SolveResult contains the outcome of a search
type SolveResult struct {
	Request         SolveRequest `json:"request"`
	Success         bool         `json:"success"`
	Iterations      int          `json:"iterations"`
	ConvergenceInfo string       `json:"convergence_info"`

	// Value is the solved amount for the request's target.
	Value decimal.Decimal `json:"value"`
	// Baseline is the target's amount in the unmodified inputs.
	Baseline decimal.Decimal `json:"baseline"`

	// Result is the worksheet computed at Value.
	Result *domain.WorksheetResult `json:"result"`
}

// Delta is the change from the baseline amount to the solved value.
func (r *SolveResult) Delta() decimal.Decimal { return r.Value.Sub(r.Baseline) }

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // default convergence tolerance
	MaxIterations int             // maximum bisection steps
	MaxSearch     decimal.Decimal // upper bound for income searches without Constraints.Max
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1),
		MaxIterations: 64,
		MaxSearch:     decimal.NewFromInt(2_000_000),
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate(goal SolveGoal) error {
	if c.Min != nil && c.Min.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be negative",
		}
	}
	if c.Min != nil && c.Max != nil && c.Min.GreaterThan(*c.Max) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min cannot be greater than max",
		}
	}
	if goal == GoalMatchInstallment {
		if c.TargetInstallment == nil {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "target_installment is required for match_installment",
			}
		}
		if c.TargetInstallment.IsNegative() {
			return &BreakEvenError{
				Operation: "validate_constraints",
				Message:   "target_installment cannot be negative",
			}
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
