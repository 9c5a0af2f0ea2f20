package domain

import (
	"github.com/shopspring/decimal"
)

// Input field names. These match the YAML keys and are the names reported in
// WorksheetResult.MissingInputs and Warning.Field.
const (
	FieldProjectedGrossIncome      = "projected_gross_income"
	FieldAboveLineAdjustments      = "above_line_adjustments"
	FieldSelfEmploymentNetProfit   = "self_employment_net_profit"
	FieldDeductions                = "use_standard_deduction or itemized_deductions"
	FieldItemizedDeductions        = "itemized_deductions"
	FieldStandardDeductionOverride = "standard_deduction_override"
	FieldQBIAmount                 = "qbi_amount"
	FieldAMT                       = "amt"
	FieldOtherTaxes                = "other_taxes"
	FieldNonrefundableCredits      = "nonrefundable_credits"
	FieldRefundableCredits         = "refundable_credits"
	FieldIncomeTaxWithheld         = "income_tax_withheld"
	FieldAdditionalMedicare        = "additional_medicare_withholding"
	FieldPriorYearTotalTax         = "prior_year_total_tax"
	FieldOverpaymentApplied        = "overpayment_applied_first_installment"
	FieldSSWageBase                = "ss_wage_base"
)

// WorksheetInputs is the flat record of user-entered worksheet data. Nil
// pointers are absent values. The engine never mutates it.
type WorksheetInputs struct {
	TaxYear      int          `yaml:"tax_year" json:"tax_year"`
	FilingStatus FilingStatus `yaml:"filing_status" json:"filing_status"`

	ProjectedGrossIncome    *decimal.Decimal `yaml:"projected_gross_income" json:"projected_gross_income,omitempty"`
	AboveLineAdjustments    *decimal.Decimal `yaml:"above_line_adjustments" json:"above_line_adjustments,omitempty"`
	SelfEmploymentNetProfit *decimal.Decimal `yaml:"self_employment_net_profit" json:"self_employment_net_profit,omitempty"`

	UseStandardDeduction      bool             `yaml:"use_standard_deduction" json:"use_standard_deduction"`
	ItemizedDeductions        *decimal.Decimal `yaml:"itemized_deductions" json:"itemized_deductions,omitempty"`
	StandardDeductionOverride *decimal.Decimal `yaml:"standard_deduction_override" json:"standard_deduction_override,omitempty"`

	ExpectsQBIDeduction bool             `yaml:"expects_qbi_deduction" json:"expects_qbi_deduction"`
	QBIAmount           *decimal.Decimal `yaml:"qbi_amount" json:"qbi_amount,omitempty"`

	AMT                  *decimal.Decimal `yaml:"amt" json:"amt,omitempty"`
	OtherTaxes           *decimal.Decimal `yaml:"other_taxes" json:"other_taxes,omitempty"`
	NonrefundableCredits *decimal.Decimal `yaml:"nonrefundable_credits" json:"nonrefundable_credits,omitempty"`
	RefundableCredits    *decimal.Decimal `yaml:"refundable_credits" json:"refundable_credits,omitempty"`
	IncomeTaxWithheld    *decimal.Decimal `yaml:"income_tax_withheld" json:"income_tax_withheld,omitempty"`

	AdditionalMedicareWithholding *decimal.Decimal `yaml:"additional_medicare_withholding" json:"additional_medicare_withholding,omitempty"`
	PriorYearTotalTax             *decimal.Decimal `yaml:"prior_year_total_tax" json:"prior_year_total_tax,omitempty"`
	HighIncomePriorYear           bool             `yaml:"high_income_prior_year" json:"high_income_prior_year"`
	FarmerOrFisher                bool             `yaml:"farmer_or_fisher" json:"farmer_or_fisher"`

	OverpaymentAppliedFirstInstallment *decimal.Decimal `yaml:"overpayment_applied_first_installment" json:"overpayment_applied_first_installment,omitempty"`

	// SSWageBase overrides the configured Social Security wage base for the year.
	SSWageBase *decimal.Decimal `yaml:"ss_wage_base" json:"ss_wage_base,omitempty"`
	// ScheduleOverride replaces the rate schedule for the listed statuses only.
	ScheduleOverride map[FilingStatus][]RateBracket `yaml:"schedule_override" json:"schedule_override,omitempty"`
}

// Line identifies one worksheet line.
type Line string

const (
	Line1   Line = "line1"
	Line2a  Line = "line2a"
	Line2b  Line = "line2b"
	Line2c  Line = "line2c"
	Line3   Line = "line3"
	Line4   Line = "line4"
	Line5   Line = "line5"
	Line6   Line = "line6"
	Line7   Line = "line7"
	Line8   Line = "line8"
	Line9   Line = "line9"
	Line10  Line = "line10"
	Line11a Line = "line11a"
	Line11b Line = "line11b"
	Line11c Line = "line11c"
	Line12a Line = "line12a"
	Line12b Line = "line12b"
	Line12c Line = "line12c"
	Line13  Line = "line13"
	Line14a Line = "line14a"
	Line14b Line = "line14b"
	Line15  Line = "line15"
)

// WorksheetLineOrder is the computation (and form) order of the 22 lines.
var WorksheetLineOrder = []Line{
	Line1, Line2a, Line2b, Line2c, Line3, Line4, Line5, Line6, Line7, Line8,
	Line9, Line10, Line11a, Line11b, Line11c, Line12a, Line12b, Line12c, Line13,
	Line14a, Line14b, Line15,
}

// Label returns the printed form of the line number, e.g. "11a".
func (l Line) Label() string { return string(l)[len("line"):] }

// WorksheetLines holds the 22 computed values.
type WorksheetLines struct {
	Line1   decimal.Decimal `json:"line1" yaml:"line1"`
	Line2a  decimal.Decimal `json:"line2a" yaml:"line2a"`
	Line2b  decimal.Decimal `json:"line2b" yaml:"line2b"`
	Line2c  decimal.Decimal `json:"line2c" yaml:"line2c"`
	Line3   decimal.Decimal `json:"line3" yaml:"line3"`
	Line4   decimal.Decimal `json:"line4" yaml:"line4"`
	Line5   decimal.Decimal `json:"line5" yaml:"line5"`
	Line6   decimal.Decimal `json:"line6" yaml:"line6"`
	Line7   decimal.Decimal `json:"line7" yaml:"line7"`
	Line8   decimal.Decimal `json:"line8" yaml:"line8"`
	Line9   decimal.Decimal `json:"line9" yaml:"line9"`
	Line10  decimal.Decimal `json:"line10" yaml:"line10"`
	Line11a decimal.Decimal `json:"line11a" yaml:"line11a"`
	Line11b decimal.Decimal `json:"line11b" yaml:"line11b"`
	Line11c decimal.Decimal `json:"line11c" yaml:"line11c"`
	Line12a decimal.Decimal `json:"line12a" yaml:"line12a"`
	Line12b decimal.Decimal `json:"line12b" yaml:"line12b"`
	Line12c decimal.Decimal `json:"line12c" yaml:"line12c"`
	Line13  decimal.Decimal `json:"line13" yaml:"line13"`
	Line14a decimal.Decimal `json:"line14a" yaml:"line14a"`
	Line14b decimal.Decimal `json:"line14b" yaml:"line14b"`
	Line15  decimal.Decimal `json:"line15" yaml:"line15"`
}

// Value returns the value of line l.
func (wl *WorksheetLines) Value(l Line) (decimal.Decimal, bool) {
	p := wl.ptr(l)
	if p == nil {
		return decimal.Zero, false
	}
	return *p, true
}

// Set assigns the value of line l. Unknown lines are ignored.
func (wl *WorksheetLines) Set(l Line, v decimal.Decimal) {
	if p := wl.ptr(l); p != nil {
		*p = v
	}
}

func (wl *WorksheetLines) ptr(l Line) *decimal.Decimal {
	switch l {
	case Line1:
		return &wl.Line1
	case Line2a:
		return &wl.Line2a
	case Line2b:
		return &wl.Line2b
	case Line2c:
		return &wl.Line2c
	case Line3:
		return &wl.Line3
	case Line4:
		return &wl.Line4
	case Line5:
		return &wl.Line5
	case Line6:
		return &wl.Line6
	case Line7:
		return &wl.Line7
	case Line8:
		return &wl.Line8
	case Line9:
		return &wl.Line9
	case Line10:
		return &wl.Line10
	case Line11a:
		return &wl.Line11a
	case Line11b:
		return &wl.Line11b
	case Line11c:
		return &wl.Line11c
	case Line12a:
		return &wl.Line12a
	case Line12b:
		return &wl.Line12b
	case Line12c:
		return &wl.Line12c
	case Line13:
		return &wl.Line13
	case Line14a:
		return &wl.Line14a
	case Line14b:
		return &wl.Line14b
	case Line15:
		return &wl.Line15
	}
	return nil
}

// Decision reasons.
const (
	ReasonLine14aNotPositive = "line14a≤0"
	ReasonDeMinimis          = "de minimis safe harbor"
	ReasonPaymentsRequired   = "estimated payments required"
)

// PaymentDecision is the outcome of the payment-requirement rule.
type PaymentDecision struct {
	RequirePayments bool   `json:"require_payments" yaml:"require_payments"`
	Reason          string `json:"reason" yaml:"reason"`
}

// SelfEmploymentTaxDetail is the SE tax breakdown feeding lines 1 and 9.
type SelfEmploymentTaxDetail struct {
	SETax         decimal.Decimal `json:"se_tax" yaml:"se_tax"`
	HalfDeduction decimal.Decimal `json:"half_deduction" yaml:"half_deduction"`
	NetEarnings   decimal.Decimal `json:"net_earnings" yaml:"net_earnings"`
}

// WorksheetResult is produced once per computation and not modified afterwards.
type WorksheetResult struct {
	WorksheetLines `yaml:",inline"`

	TaxYear       int                      `json:"tax_year" yaml:"tax_year"`
	FilingStatus  FilingStatus             `json:"filing_status" yaml:"filing_status"`
	Rounding      RoundingMode             `json:"rounding" yaml:"rounding"`
	Decision      PaymentDecision          `json:"decision" yaml:"decision"`
	MissingInputs []string                 `json:"missing_inputs" yaml:"missing_inputs"`
	Warnings      []Warning                `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Explainers    map[Line]string          `json:"explainers" yaml:"explainers"`
	SETaxDetail   *SelfEmploymentTaxDetail `json:"se_tax_detail,omitempty" yaml:"se_tax_detail,omitempty"`
}

// FormatLine renders line l at the result's precision.
func (r *WorksheetResult) FormatLine(l Line) string {
	v, _ := r.Value(l)
	return r.Rounding.Format(v)
}
