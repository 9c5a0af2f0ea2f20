package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rgehrsitz/estax/internal/domain"
)

// ConsoleFormatter renders the worksheet as an aligned table. The verbose
// variant adds line descriptions, the SE tax breakdown and the assumptions.
type ConsoleFormatter struct {
	Verbose bool
}

func (c ConsoleFormatter) Name() string {
	if c.Verbose {
		return "console-verbose"
	}
	return "console"
}

func (c ConsoleFormatter) Format(result *domain.WorksheetResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("no worksheet result to format")
	}
	var buf bytes.Buffer

	title := fmt.Sprintf("FORM 1040-ES ESTIMATED TAX WORKSHEET (%d, %s)", result.TaxYear, result.FilingStatus)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", len(title)))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range domain.WorksheetLineOrder {
		if c.Verbose {
			fmt.Fprintf(tw, "%s\t%s\t  %s\n", l.Label(), result.FormatLine(l), describe(result, l))
		} else {
			fmt.Fprintf(tw, "%s\t%s\t\n", l.Label(), result.FormatLine(l))
		}
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	fmt.Fprintln(&buf)

	answer := "NO"
	if result.Decision.RequirePayments {
		answer = "YES"
	}
	fmt.Fprintf(&buf, "Estimated payments required: %s (%s)\n", answer, result.Decision.Reason)
	if result.Decision.RequirePayments {
		fmt.Fprintf(&buf, "Each installment (line 15):   %s\n", domain.FormatCurrency(result.Rounding.Round(result.Line15)))
	}

	if len(result.MissingInputs) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "MISSING INPUTS (0 used):")
		for _, m := range result.MissingInputs {
			fmt.Fprintf(&buf, "- %s\n", m)
		}
	}
	if violations := domainViolations(result); len(violations) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "ADJUSTED INPUTS:")
		for _, w := range violations {
			fmt.Fprintf(&buf, "- %s: %s\n", w.Field, w.Message)
		}
	}

	if c.Verbose {
		if se := result.SETaxDetail; se != nil {
			fmt.Fprintln(&buf)
			fmt.Fprintln(&buf, "SELF-EMPLOYMENT TAX:")
			fmt.Fprintf(&buf, "Net earnings:   %s\n", result.Rounding.Format(se.NetEarnings))
			fmt.Fprintf(&buf, "SE tax:         %s\n", result.Rounding.Format(se.SETax))
			fmt.Fprintf(&buf, "Half deduction: %s\n", result.Rounding.Format(se.HalfDeduction))
		}
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range DefaultAssumptions {
			fmt.Fprintf(&buf, "- %s\n", a)
		}
	}
	return buf.Bytes(), nil
}

// describe strips the "Line N: " prefix from a line explainer.
func describe(result *domain.WorksheetResult, l domain.Line) string {
	text := result.Explainers[l]
	if i := strings.Index(text, ": "); i >= 0 {
		return text[i+2:]
	}
	return text
}

func domainViolations(result *domain.WorksheetResult) []domain.Warning {
	var out []domain.Warning
	for _, w := range result.Warnings {
		if w.Kind == domain.DomainViolation {
			out = append(out, w)
		}
	}
	return out
}
