package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyTaxEstimator_Estimate(t *testing.T) {
	rb := loadRules(t)

	tests := []struct {
		name          string
		gross         string
		expenses      string
		other         string
		wantTaxable   string
		wantFederal   string
		wantSE        string
		wantQuarterly string
	}{
		{"60k less 10k", "60000", "10000", "0", "46467.61", "5530.37", "7064.78", "3148.79"},
		{"90k less 10k", "90000", "10000", "0", "74348.18", "11664.10", "11303.64", "5741.93"},
		{"expenses exceed income", "10000", "25000", "0", "0", "0", "0", "0"},
		{"other deductions reduce profit", "60000", "5000", "5000", "46467.61", "5530.37", "7064.78", "3148.79"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := NewLegacyTaxEstimator(rb.LegacyEstimator).Estimate(domain.LegacySingle, dec(tt.gross), dec(tt.expenses), dec(tt.other))
			require.NoError(t, err)
			assertDecimal(t, tt.wantTaxable, est.TaxableIncome, "taxable")
			assertDecimal(t, tt.wantFederal, est.FederalTax, "federal")
			assertDecimal(t, tt.wantSE, est.SelfEmploymentTax, "se")
			assertDecimal(t, tt.wantQuarterly, est.QuarterlyPayment, "quarterly")
		})
	}
}

func TestLegacyTaxEstimator_SameTableForEveryStatus(t *testing.T) {
	rb := loadRules(t)
	calc := NewLegacyTaxEstimator(rb.LegacyEstimator)

	single, err := calc.Estimate(domain.LegacySingle, dec("120000"), dec("0"), dec("0"))
	require.NoError(t, err)
	for _, s := range domain.LegacyFilingStatuses {
		got, err := calc.Estimate(s, dec("120000"), dec("0"), dec("0"))
		require.NoError(t, err)
		assert.Equal(t, single, got, "status %s", s)
	}
}

func TestLegacyTaxEstimator_RawQuarterUnrounded(t *testing.T) {
	rb := loadRules(t)
	raw, err := NewLegacyTaxEstimator(rb.LegacyEstimator).estimate(domain.LegacySingle, dec("60000"), dec("10000"), dec("0"))
	require.NoError(t, err)
	assertDecimal(t, "12595.14975", raw.TotalTax())
	assertDecimal(t, "7064.775", raw.SelfEmploymentTax)
}

func TestLegacyTaxEstimator_Errors(t *testing.T) {
	rb := loadRules(t)

	_, err := NewLegacyTaxEstimator(rb.LegacyEstimator).Estimate("single_filer", dec("1"), dec("0"), dec("0"))
	assert.True(t, errors.Is(err, domain.ErrInvalidFilingStatus))

	// Worksheet status names are not legacy statuses.
	_, err = NewLegacyTaxEstimator(rb.LegacyEstimator).Estimate(domain.LegacyFilingStatus(domain.MarriedFilingJointly), dec("1"), dec("0"), dec("0"))
	assert.True(t, errors.Is(err, domain.ErrInvalidFilingStatus))

	_, err = NewLegacyTaxEstimator(domain.LegacyEstimatorRules{}).Estimate(domain.LegacySingle, dec("1"), dec("0"), dec("0"))
	var ce *domain.ConfigurationError
	assert.True(t, errors.As(err, &ce))
}
