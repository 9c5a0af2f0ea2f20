package transform

import (
	"testing"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformRegistry_ParseTransformSpec(t *testing.T) {
	registry := NewTransformRegistry()

	tests := []struct {
		spec     string
		wantName string
		wantErr  string
	}{
		{"set_gross:amount=65000", "set_gross", ""},
		{"adjust_gross:delta=-2_500", "adjust_gross", ""},
		{"set_se_profit:amount=12000", "set_se_profit", ""},
		{"adjust_se_profit: delta = 4000", "adjust_se_profit", ""},
		{"set_withholding:amount=5000", "set_withholding", ""},
		{"add_withholding:amount=250.50", "add_withholding", ""},
		{"set_prior_tax:amount=9000,high_income=true", "set_prior_tax", ""},
		{"apply_overpayment:amount=300", "apply_overpayment", ""},
		{"itemize:amount=21000", "itemize", ""},
		{"standard_deduction", "standard_deduction", ""},
		{"set_flag:flag=farmer_or_fisher", "set_flag", ""},
		{"set_flag:flag=high_income_prior_year,value=false", "set_flag", ""},
		{"postpone_retirement:months=12", "", "unknown transform: postpone_retirement"},
		{"set_gross", "", "set_gross requires 'amount' parameter"},
		{"set_gross:amount=lots", "", "invalid amount value"},
		{"set_gross:amount", "", "invalid parameter format"},
		{"set_prior_tax:amount=1,high_income=maybe", "", "invalid high_income value"},
		{"set_flag:value=true", "", "set_flag requires 'flag' parameter"},
		{":amount=1", "", "invalid transform spec format"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := registry.ParseTransformSpec(tt.spec)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name())
		})
	}
}

func TestTransformRegistry_ParsedValues(t *testing.T) {
	registry := NewTransformRegistry()

	tr, err := registry.ParseTransformSpec("adjust_gross:delta=-2_500")
	require.NoError(t, err)
	assert.True(t, tr.(*AdjustGrossIncome).Delta.Equal(dec("-2500")))

	tr, err = registry.ParseTransformSpec("set_prior_tax:amount=9000,high_income=true")
	require.NoError(t, err)
	prior := tr.(*SetPriorYearTax)
	require.NotNil(t, prior.HighIncome)
	assert.True(t, *prior.HighIncome)

	list, err := registry.ParseTransformSpecs([]string{"set_withholding:amount=5000", "standard_deduction"})
	require.NoError(t, err)
	got, err := ApplyTransforms(baseInputs(), list)
	require.NoError(t, err)
	assert.True(t, domain.Deref(got.IncomeTaxWithheld).Equal(dec("5000")))

	_, err = registry.ParseTransformSpecs([]string{"set_withholding:amount=5000", "nope"})
	assert.Error(t, err)
}

func TestTransformRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Len(t, names, 11)
	assert.Equal(t, "add_withholding", names[0])
	assert.Contains(t, names, "set_prior_tax")
}

func TestTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	assert.Equal(t, []string{"bonus_10k", "bonus_5k", "farmer", "high_income", "lose_side_gig",
		"side_gig_10k", "side_gig_5k", "w4_extra_250", "w4_extra_500"}, registry.List())

	tpl, ok := registry.Get("W4_EXTRA_250")
	require.True(t, ok)
	got, err := ApplyTransforms(baseInputs(), tpl.Transforms)
	require.NoError(t, err)
	assert.True(t, domain.Deref(got.IncomeTaxWithheld).Equal(dec("7000")))

	tpl, _ = registry.Get("side_gig_5k")
	got, err = ApplyTransforms(baseInputs(), tpl.Transforms)
	require.NoError(t, err)
	assert.True(t, domain.Deref(got.SelfEmploymentNetProfit).Equal(dec("35000")))
	assert.True(t, domain.Deref(got.ProjectedGrossIncome).Equal(dec("85000")))

	_, ok = registry.Get("postpone_1yr")
	assert.False(t, ok)

	help := GetTemplateHelp(registry)
	assert.Contains(t, help, "Income Changes:")
	assert.Contains(t, help, "Safe Harbor:")
	assert.Contains(t, help, "w4_extra_500")
	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))

	assert.Equal(t, []string{"bonus_5k", "farmer"}, ParseTemplateList(" bonus_5k, ,farmer "))
}
