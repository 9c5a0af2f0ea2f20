package integration

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/compare"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/rgehrsitz/estax/internal/forms"
	"github.com/rgehrsitz/estax/internal/output"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRules(t *testing.T) *domain.RuleBook {
	t.Helper()
	rules, err := config.DefaultRules()
	require.NoError(t, err, "Should load the built-in rules")
	return rules
}

func computeFile(t *testing.T, path string) (*config.WorksheetDocument, *domain.WorksheetResult) {
	t.Helper()
	doc, err := config.NewInputParser().LoadWorksheet(path)
	require.NoError(t, err, "Should load %s", path)
	engine := calculation.NewWorksheetEngine(loadRules(t))
	engine.Rounding = doc.Rounding
	result, err := engine.Compute(doc.WorksheetInputs)
	require.NoError(t, err, "Should compute %s", path)
	return doc, result
}

func assertLine(t *testing.T, result *domain.WorksheetResult, l domain.Line, want string) {
	t.Helper()
	got, ok := result.Value(l)
	require.True(t, ok, "unknown line %s", l)
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", l, want, got)
}

// TestEndToEndWorksheet loads worksheet inputs from disk and checks the computed lines
func TestEndToEndWorksheet(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		lines   map[domain.Line]string
		require bool
		reason  string
		missing []string
	}{
		{
			name: "wages only without prior-year tax",
			file: "../testdata/worksheet_scenario_a.yaml",
			lines: map[domain.Line]string{
				domain.Line1: "80000", domain.Line2a: "14600", domain.Line3: "65400",
				domain.Line4: "9441", domain.Line11c: "9441", domain.Line12a: "8497",
			},
			require: false,
			reason:  domain.ReasonLine14aNotPositive,
			missing: []string{domain.FieldPriorYearTotalTax},
		},
		{
			name: "sole proprietor",
			file: "../testdata/worksheet_scenario_b.yaml",
			lines: map[domain.Line]string{
				domain.Line1: "46468", domain.Line3: "31868", domain.Line4: "3592",
				domain.Line9: "7065", domain.Line11c: "10657", domain.Line12a: "9591",
				domain.Line12b: "5000", domain.Line12c: "5000", domain.Line14a: "5000",
				domain.Line14b: "10657", domain.Line15: "1250",
			},
			require: true,
			reason:  domain.ReasonPaymentsRequired,
			missing: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := computeFile(t, tt.file)
			for l, want := range tt.lines {
				assertLine(t, result, l, want)
			}
			assert.Equal(t, tt.require, result.Decision.RequirePayments)
			assert.Equal(t, tt.reason, result.Decision.Reason)
			assert.Equal(t, tt.missing, result.MissingInputs)
			assert.Len(t, result.Explainers, len(domain.WorksheetLineOrder))
		})
	}
}

// TestOutputGeneration renders one result through every registered formatter
func TestOutputGeneration(t *testing.T) {
	_, result := computeFile(t, "../testdata/worksheet_scenario_b.yaml")

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			f := output.GetFormatterByName(name)
			require.NotNil(t, f)
			data, err := f.Format(result)
			require.NoError(t, err, "Should generate %s output", name)
			assert.NotEmpty(t, data)
			assert.Contains(t, string(data), "10657", "%s output should include line 11c", name)
		})
	}

	t.Run("json_round_trip", func(t *testing.T) {
		data, err := output.GetFormatterByName("json").Format(result)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "1250", decoded["line15"])
		assert.Equal(t, float64(2024), decoded["tax_year"])
	})

	t.Run("csv_rows", func(t *testing.T) {
		data, err := output.GetFormatterByName("csv").Format(result)
		require.NoError(t, err)
		rows := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, "Line,Amount,Description", rows[0])
		assert.Len(t, rows, 1+len(domain.WorksheetLineOrder)+1)
		assert.True(t, strings.HasPrefix(rows[len(rows)-1], "RequirePayments,true"))
	})
}

// TestFormFieldMapping fills a mixed field list from a worksheet with identity and payments
func TestFormFieldMapping(t *testing.T) {
	doc, result := computeFile(t, "../testdata/worksheet_with_payments.yaml")
	fields, err := config.NewInputParser().LoadFieldList("../testdata/fields_example.txt")
	require.NoError(t, err)
	require.Len(t, fields, 14)

	mapping := forms.NewAdapter().Map(result, forms.FormContext{
		Taxpayer: doc.Taxpayer,
		Payments: doc.PriorPayments,
	}, fields)
	values := mapping.Values()

	expected := map[string]string{
		"topmostSubform[0].Page8[0].f8_1[0]":  "46468",
		"topmostSubform[0].Page8[0].f8_22[0]": "1250",
		"taxpayer_name":                       "Pat Doe",
		"ssn":                                 "123-45-6789",
		"address_1":                           "100 Main St",
		"city":                                "Springfield",
		"state":                               "IL",
		"zip":                                 "62701",
		"voucher_amount":                      "1250.00",
		"q1_amount":                           "1250.00",
		"q1_date":                             "2024-04-15",
		"total_payments":                      "1250.00",
		"line_11c":                            "10657",
	}
	for field, want := range expected {
		assert.Equal(t, want, values[field], "field %s", field)
	}
	assert.Equal(t, []string{"signature"}, mapping.Unmatched)
	assert.Empty(t, mapping.Ambiguous)
}

// TestVoucherEndToEnd runs the all-in-one 1040-ES computation from a file
func TestVoucherEndToEnd(t *testing.T) {
	in, err := config.NewInputParser().LoadVoucher("../testdata/voucher_example.yaml")
	require.NoError(t, err)

	res, err := calculation.NewIrs1040EsComputation(loadRules(t).LegacyEstimator).Compute(*in)
	require.NoError(t, err)

	want := map[string]decimal.Decimal{
		"12595.15": res.TotalTax,
		"11335.63": res.RequiredAnnual,
		"2833.91":  res.QuarterlyBase,
		"8501.72":  res.Remaining,
	}
	for w, got := range want {
		assert.True(t, decimal.RequireFromString(w).Equal(got), "want %s, got %s", w, got)
	}
	assert.True(t, res.PaidSoFar.Equal(decimal.RequireFromString("2833.91")))
	assert.True(t, res.NextVoucher.Equal(decimal.RequireFromString("2833.91")), "three installments left")
	assert.Empty(t, res.MissingPrompts)
}

// TestStrategyComparison compares the three estimators for a household file
func TestStrategyComparison(t *testing.T) {
	hs, err := config.NewInputParser().LoadHousehold("../testdata/household_example.yaml")
	require.NoError(t, err)

	compSet, err := compare.NewCompareEngine(loadRules(t)).Compare(context.Background(), *hs, compare.CompareOptions{})
	require.NoError(t, err)

	require.NotNil(t, compSet.BaseResult)
	assert.Equal(t, calculation.EstimatorWorksheet, compSet.BaseStrategy)
	assert.True(t, compSet.BaseResult.TotalTax.Equal(decimal.NewFromInt(10657)))
	require.Len(t, compSet.AlternativeResults, 2)

	byName := map[string]compare.ComparisonResult{}
	for _, r := range compSet.AlternativeResults {
		byName[r.Strategy] = r
	}
	assert.True(t, byName[calculation.EstimatorLegacy].TotalTax.Equal(decimal.RequireFromString("12595.15")))
	assert.True(t, byName[calculation.EstimatorIrs1040Es].QuarterlyPayment.Equal(decimal.RequireFromString("2833.91")))
	assert.NotEmpty(t, compSet.Recommendations)

	table := (&compare.TableFormatter{}).Format(compSet)
	assert.Contains(t, table, "ESTIMATED TAX STRATEGY COMPARISON")
}

// TestErrorHandling checks that fatal conditions surface as errors and the rest as warnings
func TestErrorHandling(t *testing.T) {
	parser := config.NewInputParser()

	t.Run("missing_file", func(t *testing.T) {
		_, err := parser.LoadWorksheet("../testdata/does_not_exist.yaml")
		assert.Error(t, err)
	})

	t.Run("invalid_filing_status", func(t *testing.T) {
		_, err := parser.LoadWorksheet("../testdata/worksheet_invalid_status.yaml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidFilingStatus))
	})

	t.Run("unknown_tax_year", func(t *testing.T) {
		engine := calculation.NewWorksheetEngine(loadRules(t))
		_, err := engine.Compute(domain.WorksheetInputs{TaxYear: 1999, FilingStatus: domain.Single})
		var ce *domain.ConfigurationError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, 1999, ce.Year)
	})

	t.Run("missing_inputs_are_not_errors", func(t *testing.T) {
		engine := calculation.NewWorksheetEngine(loadRules(t))
		result, err := engine.Compute(domain.WorksheetInputs{TaxYear: 2025, FilingStatus: domain.HeadOfHousehold})
		require.NoError(t, err)
		assert.NotEmpty(t, result.MissingInputs)
		assert.False(t, result.Decision.RequirePayments)
	})
}

// TestDataConsistency checks that repeated runs produce identical reports
func TestDataConsistency(t *testing.T) {
	_, first := computeFile(t, "../testdata/worksheet_scenario_b.yaml")
	_, second := computeFile(t, "../testdata/worksheet_scenario_b.yaml")

	f := output.GetFormatterByName("json")
	a, err := f.Format(first)
	require.NoError(t, err)
	b, err := f.Format(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b), "JSON reports should be byte-identical")

	assert.Equal(t, []int{2024, 2025, 2026}, loadRules(t).AvailableYears())
}
