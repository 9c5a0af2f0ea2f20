package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Strategy",
		"Type",
		"Total Tax",
		"Annual Required",
		"Quarterly Payment",
		"Require Payments",
		"Total Tax Diff from Base",
		"Total Tax % Change",
		"Annual Diff from Base",
		"Quarterly Diff from Base",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}
	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, kind string) []string {
	return []string{
		result.Strategy,
		kind,
		result.TotalTax.StringFixed(2),
		result.AnnualRequired.StringFixed(2),
		result.QuarterlyPayment.StringFixed(2),
		strconv.FormatBool(result.RequirePayments),
		result.TotalTaxDiffFromBase.StringFixed(2),
		result.TotalTaxPctFromBase.StringFixed(2),
		result.AnnualDiffFromBase.StringFixed(2),
		result.QuarterlyDiffFromBase.StringFixed(2),
	}
}
