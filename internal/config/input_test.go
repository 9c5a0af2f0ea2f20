package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWorksheet_ScenarioFile(t *testing.T) {
	doc, err := NewInputParser().LoadWorksheet("testdata/worksheet_scenario_a.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2024, doc.TaxYear)
	assert.Equal(t, domain.Single, doc.FilingStatus)
	require.NotNil(t, doc.ProjectedGrossIncome)
	assert.True(t, doc.ProjectedGrossIncome.Equal(decimal.NewFromInt(80000)))
	assert.True(t, doc.UseStandardDeduction)
	assert.Nil(t, doc.AboveLineAdjustments, "absent fields stay nil")
	assert.Nil(t, doc.Taxpayer)
	assert.Equal(t, domain.RoundDollars, doc.Rounding)
}

func TestParseWorksheet_FullDocument(t *testing.T) {
	data := []byte(`
tax_year: 2025
filing_status: mfj
rounding: cents
projected_gross_income: "123456.78"
self_employment_net_profit: -1500
itemized_deductions: null
expects_qbi_deduction: true
qbi_amount: 2000
taxpayer:
  name: Pat Doe
  ssn: 123-45-6789
  city: Springfield
prior_payments:
  - { quarter: 1, amount: 1200, date: "2025-04-15" }
  - { quarter: 2, amount: 1200.50 }
`)
	doc, err := NewInputParser().ParseWorksheet(data)
	require.NoError(t, err)

	assert.Equal(t, domain.MarriedFilingJointly, doc.FilingStatus, "aliases are normalized")
	assert.Equal(t, domain.RoundCents, doc.Rounding)
	assert.Equal(t, "123456.78", doc.ProjectedGrossIncome.String())
	assert.True(t, doc.SelfEmploymentNetProfit.Equal(decimal.NewFromInt(-1500)))
	assert.Nil(t, doc.ItemizedDeductions)
	require.NotNil(t, doc.Taxpayer)
	assert.Equal(t, "Pat Doe", doc.Taxpayer.Name)
	require.Len(t, doc.PriorPayments, 2)
	assert.Equal(t, "2025-04-15", doc.PriorPayments[0].Date)
	assert.True(t, doc.PriorPayments[1].Amount.Equal(decimal.RequireFromString("1200.50")))
}

func TestParseWorksheet_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"missing year", "filing_status: single\n", nil},
		{"bad status", "tax_year: 2025\nfiling_status: married\n", domain.ErrInvalidFilingStatus},
		{"legacy status", "tax_year: 2025\nfiling_status: married_joint\n", domain.ErrInvalidFilingStatus},
		{"malformed yaml", "tax_year: [\n", nil},
		{"bad rounding", "tax_year: 2025\nfiling_status: single\nrounding: pennies\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().ParseWorksheet([]byte(tt.data))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestLoadWorksheet_BadOverrideIsConfigurationError(t *testing.T) {
	_, err := NewInputParser().LoadWorksheet("testdata/bad_override.yaml")
	require.Error(t, err)
	var ce *domain.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, domain.Single, ce.Status)
	assert.Contains(t, ce.Reason, "base")
}

func TestLoadWorksheet_MissingFile(t *testing.T) {
	_, err := NewInputParser().LoadWorksheet("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadVoucher(t *testing.T) {
	path := writeTemp(t, "voucher.yaml", `
tax_year: 2025
name: Pat Doe
address1: 1 Main St
filing_status: married_joint
expected_annual_income: 90000
deductible_expenses: 10000
prior_year_total_tax: 12000
safe_harbor: 110_percent_high_income
prior_payments:
  - { quarter: 1, amount: 3000 }
`)
	in, err := NewInputParser().LoadVoucher(path)
	require.NoError(t, err)
	assert.Equal(t, "Pat Doe", in.Name)
	assert.Equal(t, "1 Main St", in.AddressLine1)
	assert.Equal(t, domain.LegacyMarriedJoint, in.FilingStatus)
	assert.Equal(t, domain.SafeHarbor110HighInc, in.SafeHarbor)
	require.Len(t, in.PriorPayments, 1)

	bad := writeTemp(t, "bad.yaml", "tax_year: 2025\nfiling_status: married_filing_jointly\n")
	_, err = NewInputParser().LoadVoucher(bad)
	assert.ErrorIs(t, err, domain.ErrInvalidFilingStatus)

	badHarbor := writeTemp(t, "harbor.yaml", "tax_year: 2025\nsafe_harbor: 120_percent\n")
	_, err = NewInputParser().LoadVoucher(badHarbor)
	assert.Error(t, err)
}

func TestLoadHousehold(t *testing.T) {
	path := writeTemp(t, "household.yaml", `
tax_year: 2025
filing_status: hoh
gross_income: 95000
business_expenses: 15000
prior_year_total_tax: 8000
`)
	hs, err := NewInputParser().LoadHousehold(path)
	require.NoError(t, err)
	assert.Equal(t, domain.HeadOfHousehold, hs.FilingStatus)
	assert.True(t, hs.GrossIncome.Equal(decimal.NewFromInt(95000)))
	require.NotNil(t, hs.PriorYearTotalTax)
	assert.True(t, hs.Credits.IsZero())
}

func TestLoadFieldList(t *testing.T) {
	fields, err := NewInputParser().LoadFieldList("testdata/fields.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"topmostSubform[0].Page8[0].f8_1[0]",
		"topmostSubform[0].Page8[0].f8_22[0]",
		"voucher_amount",
	}, fields)
}
