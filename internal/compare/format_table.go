package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing strategies
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	hs := compSet.Household
	sb.WriteString("ESTIMATED TAX STRATEGY COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Strategy: %s\n", compSet.BaseStrategy))
	sb.WriteString(fmt.Sprintf("Household:     %d %s, gross $%s, expenses $%s\n",
		hs.TaxYear, hs.FilingStatus, hs.GrossIncome.StringFixed(0), hs.BusinessExpenses.StringFixed(0)))
	if compSet.InputPath != "" {
		sb.WriteString(fmt.Sprintf("Input:         %s\n", compSet.InputPath))
	}
	sb.WriteString("\n")

	nameWidth := 20
	numWidth := 14

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Strategy",
		numWidth, "Total Tax",
		numWidth, "Annual Req.",
		numWidth, "Quarterly",
		numWidth, "Payments?"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.Strategy))
			sb.WriteString(fmt.Sprintf("  Total Tax:        %s$%s (%s%%)\n",
				tf.deltaSymbol(alt.TotalTaxDiffFromBase),
				alt.TotalTaxDiffFromBase.Abs().StringFixed(2),
				alt.TotalTaxPctFromBase.StringFixed(1)))
			sb.WriteString(fmt.Sprintf("  Annual Required:  %s$%s\n",
				tf.deltaSymbol(alt.AnnualDiffFromBase),
				alt.AnnualDiffFromBase.Abs().StringFixed(2)))
			sb.WriteString(fmt.Sprintf("  Quarterly:        %s$%s\n",
				tf.deltaSymbol(alt.QuarterlyDiffFromBase),
				alt.QuarterlyDiffFromBase.Abs().StringFixed(2)))
			for _, note := range alt.Summary.Notes {
				sb.WriteString(fmt.Sprintf("  note: %s\n", note))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nOBSERVATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single strategy row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.Strategy
	if isBase {
		name += " (base)"
	}
	required := "no"
	if result.RequirePayments {
		required = "yes"
	}
	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, "$"+tf.formatDecimal(result.TotalTax),
		numWidth, "$"+tf.formatDecimal(result.AnnualRequired),
		numWidth, "$"+tf.formatDecimal(result.QuarterlyPayment),
		numWidth, required)
}

// formatDecimal formats a decimal for display (thousands above $10K)
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(10000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(2)
}

// deltaSymbol returns a sign for deltas; negative values carry their own
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a single-line summary of the quarterly payment per strategy
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	if compSet.BaseResult != nil {
		sb.WriteString(fmt.Sprintf("Base: %s $%s/qtr", compSet.BaseStrategy, compSet.BaseResult.QuarterlyPayment.StringFixed(2)))
	}
	for _, alt := range compSet.AlternativeResults {
		change := "="
		if alt.QuarterlyDiffFromBase.IsPositive() {
			change = fmt.Sprintf("+$%s", alt.QuarterlyDiffFromBase.StringFixed(2))
		} else if alt.QuarterlyDiffFromBase.IsNegative() {
			change = fmt.Sprintf("-$%s", alt.QuarterlyDiffFromBase.Abs().StringFixed(2))
		}
		sb.WriteString(fmt.Sprintf(" | %s: %s", alt.Strategy, change))
	}

	return sb.String()
}
