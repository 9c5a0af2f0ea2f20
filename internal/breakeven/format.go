package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a single result
func (tf *TableFormatter) Format(result *SolveResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")

	sb.WriteString(fmt.Sprintf("Target:      %s\n", targetLabel(result.Request.Target)))
	sb.WriteString(fmt.Sprintf("Goal:        %s\n", result.Request.Goal))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:  %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("SOLUTION\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Current value:  $%s\n", tf.formatCurrency(result.Baseline)))
	sb.WriteString(fmt.Sprintf("Solved value:   $%s\n", tf.formatCurrency(result.Value)))
	delta := result.Delta()
	sb.WriteString(fmt.Sprintf("Change:         %s$%s\n", tf.deltaSymbol(delta), tf.formatCurrency(delta.Abs())))
	sb.WriteString("\n")

	if r := result.Result; r != nil {
		sb.WriteString("WORKSHEET AT SOLVED VALUE\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Line 11c total tax:     $%s\n", tf.formatCurrency(r.Line11c)))
		sb.WriteString(fmt.Sprintf("Line 12c required:      $%s\n", tf.formatCurrency(r.Line12c)))
		sb.WriteString(fmt.Sprintf("Line 14a balance:       $%s\n", tf.formatCurrency(r.Line14a)))
		sb.WriteString(fmt.Sprintf("Line 15 installment:    $%s\n", tf.formatCurrency(r.Line15)))
		sb.WriteString(fmt.Sprintf("Payments required:      %s\n", yesNo(r.Decision.RequirePayments)))
		sb.WriteString("\n")
	}

	if result.Request.Goal == GoalMatchInstallment && result.Request.Constraints.TargetInstallment != nil && result.Result != nil {
		target := *result.Request.Constraints.TargetInstallment
		diff := result.Result.Line15.Sub(target)
		sb.WriteString("TARGET INSTALLMENT MATCH\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Target installment:   $%s\n", tf.formatCurrency(target)))
		sb.WriteString(fmt.Sprintf("Achieved installment: $%s\n", tf.formatCurrency(result.Result.Line15)))
		sb.WriteString(fmt.Sprintf("Difference:           %s$%s\n", tf.deltaSymbol(diff), tf.formatCurrency(diff.Abs())))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatReport formats a threshold report for several targets
func (tf *TableFormatter) FormatReport(report *ThresholdReport) string {
	var sb strings.Builder

	sb.WriteString("ESTIMATED PAYMENT THRESHOLDS\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-24s %12s %12s %8s\n", "Target", "Current", "Threshold", "Status"))
	sb.WriteString(strings.Repeat("-", 60) + "\n")
	for _, res := range report.Results {
		threshold := "-"
		if res.Success {
			threshold = "$" + tf.formatShort(res.Value)
		}
		sb.WriteString(fmt.Sprintf("%-24s %12s %12s %8s\n",
			tf.truncate(targetLabel(res.Request.Target), 24),
			"$"+tf.formatShort(res.Baseline),
			threshold,
			tf.shortStatus(res.Success)))
	}
	sb.WriteString("\n")

	if len(report.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, rec := range report.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *SolveResult) (string, error) {
	return jf.marshal(result)
}

// FormatReport formats a threshold report as JSON
func (jf *JSONFormatter) FormatReport(report *ThresholdReport) (string, error) {
	return jf.marshal(report)
}

func (jf *JSONFormatter) marshal(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "Converged"
	}
	return "Did not converge"
}

func (tf *TableFormatter) shortStatus(success bool) string {
	if success {
		return "ok"
	}
	return "none"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) formatShort(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
