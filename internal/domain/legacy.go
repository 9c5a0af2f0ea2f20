package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxEstimate is the four-field result of the dashboard estimator.
type TaxEstimate struct {
	TaxableIncome     decimal.Decimal `json:"taxable_income" yaml:"taxable_income"`
	FederalTax        decimal.Decimal `json:"federal_tax" yaml:"federal_tax"`
	SelfEmploymentTax decimal.Decimal `json:"self_employment_tax" yaml:"self_employment_tax"`
	QuarterlyPayment  decimal.Decimal `json:"quarterly_payment" yaml:"quarterly_payment"`
}

// TotalTax is federal plus self-employment tax.
func (te TaxEstimate) TotalTax() decimal.Decimal {
	return te.FederalTax.Add(te.SelfEmploymentTax)
}

// SafeHarborOption selects which prior-year candidates the legacy computation considers.
type SafeHarborOption string

const (
	SafeHarbor90Current  SafeHarborOption = "90_percent_current"
	SafeHarbor100Prior   SafeHarborOption = "100_percent_prior"
	SafeHarbor110HighInc SafeHarborOption = "110_percent_high_income"
)

// Valid reports whether o is empty or a known option.
func (o SafeHarborOption) Valid() bool {
	switch o {
	case "", SafeHarbor90Current, SafeHarbor100Prior, SafeHarbor110HighInc:
		return true
	}
	return false
}

// Taxpayer is the identity block printed on vouchers.
type Taxpayer struct {
	Name         string `yaml:"name" json:"name"`
	SSN          string `yaml:"ssn" json:"ssn,omitempty"`
	AddressLine1 string `yaml:"address1" json:"address1,omitempty"`
	AddressLine2 string `yaml:"address2" json:"address2,omitempty"`
	City         string `yaml:"city" json:"city,omitempty"`
	State        string `yaml:"state" json:"state,omitempty"`
	Zip          string `yaml:"zip" json:"zip,omitempty"`
}

// PriorPayment is an estimated payment already made in the current year.
type PriorPayment struct {
	Quarter int             `yaml:"quarter" json:"quarter"`
	Amount  decimal.Decimal `yaml:"amount" json:"amount"`
	Date    string          `yaml:"date" json:"date,omitempty"`
}

// Validate checks the quarter number.
func (p PriorPayment) Validate() error {
	if p.Quarter < 1 || p.Quarter > 4 {
		return fmt.Errorf("quarter %d out of range 1-4", p.Quarter)
	}
	return nil
}

// Irs1040EsInput is the input of the legacy all-in-one 1040-ES computation.
type Irs1040EsInput struct {
	TaxYear  int `yaml:"tax_year" json:"tax_year"`
	Taxpayer `yaml:",inline"`

	FilingStatus         LegacyFilingStatus `yaml:"filing_status" json:"filing_status"`
	ExpectedAnnualIncome *decimal.Decimal   `yaml:"expected_annual_income" json:"expected_annual_income,omitempty"`
	DeductibleExpenses   *decimal.Decimal   `yaml:"deductible_expenses" json:"deductible_expenses,omitempty"`
	OtherAdjustments     *decimal.Decimal   `yaml:"other_adjustments" json:"other_adjustments,omitempty"`
	Credits              *decimal.Decimal   `yaml:"credits" json:"credits,omitempty"`
	PriorYearTotalTax    *decimal.Decimal   `yaml:"prior_year_total_tax" json:"prior_year_total_tax,omitempty"`
	PriorPayments        []PriorPayment     `yaml:"prior_payments" json:"prior_payments,omitempty"`
	SafeHarbor           SafeHarborOption   `yaml:"safe_harbor" json:"safe_harbor,omitempty"`
}

// Irs1040EsResult is the output of the legacy computation.
type Irs1040EsResult struct {
	Estimate       TaxEstimate     `json:"estimate" yaml:"estimate"`
	TotalTax       decimal.Decimal `json:"total_tax" yaml:"total_tax"`
	RequiredAnnual decimal.Decimal `json:"required_annual" yaml:"required_annual"`
	QuarterlyBase  decimal.Decimal `json:"quarterly_payment" yaml:"quarterly_payment"`
	PaidSoFar      decimal.Decimal `json:"paid_so_far" yaml:"paid_so_far"`
	Remaining      decimal.Decimal `json:"remaining" yaml:"remaining"`
	NextVoucher    decimal.Decimal `json:"next_voucher" yaml:"next_voucher"`
	MissingPrompts []string        `json:"missing_prompts" yaml:"missing_prompts"`
	Warnings       []Warning       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Payments are the accepted prior payments, keyed by quarter in input order.
	Payments []PriorPayment `json:"payments,omitempty" yaml:"payments,omitempty"`
}

// HouseholdSummary is the common input of every TaxEstimator strategy.
type HouseholdSummary struct {
	TaxYear           int              `yaml:"tax_year" json:"tax_year"`
	FilingStatus      FilingStatus     `yaml:"filing_status" json:"filing_status"`
	GrossIncome       decimal.Decimal  `yaml:"gross_income" json:"gross_income"`
	BusinessExpenses  decimal.Decimal  `yaml:"business_expenses" json:"business_expenses"`
	OtherDeductions   decimal.Decimal  `yaml:"other_deductions" json:"other_deductions"`
	Credits           decimal.Decimal  `yaml:"credits" json:"credits"`
	Withholding       decimal.Decimal  `yaml:"withholding" json:"withholding"`
	PriorYearTotalTax *decimal.Decimal `yaml:"prior_year_total_tax" json:"prior_year_total_tax,omitempty"`
	HighIncome        bool             `yaml:"high_income_prior_year" json:"high_income_prior_year"`
}

// EstimateSummary is what a TaxEstimator reports for a household.
type EstimateSummary struct {
	Strategy         string          `json:"strategy" yaml:"strategy"`
	TotalTax         decimal.Decimal `json:"total_tax" yaml:"total_tax"`
	AnnualRequired   decimal.Decimal `json:"annual_required" yaml:"annual_required"`
	QuarterlyPayment decimal.Decimal `json:"quarterly_payment" yaml:"quarterly_payment"`
	RequirePayments  bool            `json:"require_payments" yaml:"require_payments"`
	Notes            []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}
