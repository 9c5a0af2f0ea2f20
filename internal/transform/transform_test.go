package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func baseInputs() domain.WorksheetInputs {
	return domain.WorksheetInputs{
		TaxYear:                 2024,
		FilingStatus:            domain.Single,
		ProjectedGrossIncome:    domain.Dec(80000),
		SelfEmploymentNetProfit: domain.Dec(30000),
		UseStandardDeduction:    true,
		IncomeTaxWithheld:       domain.Dec(4000),
		PriorYearTotalTax:       domain.Dec(9000),
	}
}

func TestTransforms_Apply(t *testing.T) {
	high := true
	tests := []struct {
		name      string
		transform InputTransform
		check     func(t *testing.T, got domain.WorksheetInputs)
	}{
		{"set gross", &SetGrossIncome{Amount: dec("65000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("65000")))
		}},
		{"adjust gross up", &AdjustGrossIncome{Delta: dec("5000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("85000")))
		}},
		{"adjust gross floors at zero", &AdjustGrossIncome{Delta: dec("-90000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.ProjectedGrossIncome).IsZero())
		}},
		{"set SE profit keeps other income", &SetSEProfit{Amount: dec("45000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("95000")))
			assert.True(t, domain.Deref(got.SelfEmploymentNetProfit).Equal(dec("45000")))
		}},
		{"adjust SE profit", &AdjustSEProfit{Delta: dec("-10000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("70000")))
			assert.True(t, domain.Deref(got.SelfEmploymentNetProfit).Equal(dec("20000")))
		}},
		{"set withholding", &SetWithholding{Amount: dec("0")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.IncomeTaxWithheld).IsZero())
		}},
		{"add withholding", &AddWithholding{Amount: dec("3000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.IncomeTaxWithheld).Equal(dec("7000")))
		}},
		{"set prior tax with high income", &SetPriorYearTax{Amount: dec("12000"), HighIncome: &high}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.PriorYearTotalTax).Equal(dec("12000")))
			assert.True(t, got.HighIncomePriorYear)
		}},
		{"apply overpayment", &ApplyOverpayment{Amount: dec("400")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, domain.Deref(got.OverpaymentAppliedFirstInstallment).Equal(dec("400")))
		}},
		{"itemize", &Itemize{Amount: dec("22000")}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.False(t, got.UseStandardDeduction)
			assert.True(t, domain.Deref(got.ItemizedDeductions).Equal(dec("22000")))
		}},
		{"farmer flag", &SetFlag{Field: FlagFarmerOrFisher, Value: true}, func(t *testing.T, got domain.WorksheetInputs) {
			assert.True(t, got.FarmerOrFisher)
			assert.False(t, got.HighIncomePriorYear)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := baseInputs()
			require.NoError(t, tt.transform.Validate(base))
			got, err := tt.transform.Apply(base)
			require.NoError(t, err)
			tt.check(t, got)
			assert.NotEmpty(t, tt.transform.Description())

			// The base inputs are never written through.
			assert.True(t, domain.Deref(base.ProjectedGrossIncome).Equal(dec("80000")))
			assert.True(t, domain.Deref(base.IncomeTaxWithheld).Equal(dec("4000")))
			assert.True(t, base.UseStandardDeduction)
		})
	}
}

func TestTransforms_ValidateRejectsNegativeAmounts(t *testing.T) {
	for _, tr := range []InputTransform{
		&SetGrossIncome{Amount: dec("-1")},
		&SetSEProfit{Amount: dec("-1")},
		&SetWithholding{Amount: dec("-1")},
		&AddWithholding{Amount: dec("-1")},
		&SetPriorYearTax{Amount: dec("-1")},
		&ApplyOverpayment{Amount: dec("-1")},
		&Itemize{Amount: dec("-1")},
		&SetFlag{Field: "married"},
	} {
		err := tr.Validate(baseInputs())
		var te *TransformError
		require.True(t, errors.As(err, &te), tr.Name())
		assert.Equal(t, "validate", te.Operation)
	}
}

func TestApplyTransforms(t *testing.T) {
	base := baseInputs()

	got, err := ApplyTransforms(base, []InputTransform{
		&AdjustGrossIncome{Delta: dec("10000")},
		&AddWithholding{Amount: dec("1000")},
		&AddWithholding{Amount: dec("500")},
	})
	require.NoError(t, err)
	assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("90000")))
	assert.True(t, domain.Deref(got.IncomeTaxWithheld).Equal(dec("5500")))

	same, err := ApplyTransforms(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, same)

	_, err = ApplyTransforms(base, []InputTransform{nil})
	assert.ErrorContains(t, err, "transform at index 0 is nil")

	_, err = ApplyTransforms(base, []InputTransform{&SetWithholding{Amount: dec("-5")}})
	assert.ErrorContains(t, err, "set_withholding validation failed")
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := NewTransformError("set_gross", "apply", "bad input", cause)
	assert.Equal(t, "transform set_gross (apply): bad input: boom", err.Error())
	assert.True(t, errors.Is(err, cause))

	err = NewTransformError("set_gross", "validate", "bad input", nil)
	assert.Equal(t, "transform set_gross (validate): bad input", err.Error())
}

func TestDescribe(t *testing.T) {
	got := Describe([]InputTransform{&AddWithholding{Amount: dec("3000")}, &UseStandardDeduction{}})
	assert.Equal(t, []string{"Withhold an additional $3000.00", "Take the standard deduction"}, got)
}
