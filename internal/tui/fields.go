package tui

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

type fieldKind int

const (
	kindYear fieldKind = iota
	kindStatus
	kindAmount
	kindFlag
)

// formField is one editable worksheet input. Amount fields own a text editor;
// the others are cycled or toggled in place.
type formField struct {
	Key    string
	Label  string
	Kind   fieldKind
	amount func(*domain.WorksheetInputs) **decimal.Decimal
	flag   func(*domain.WorksheetInputs) *bool
}

var worksheetFields = []formField{
	{Key: "tax_year", Label: "Tax year", Kind: kindYear},
	{Key: "filing_status", Label: "Filing status", Kind: kindStatus},
	amountField(domain.FieldProjectedGrossIncome, "Projected gross income", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.ProjectedGrossIncome }),
	amountField(domain.FieldAboveLineAdjustments, "Above-the-line adjustments", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.AboveLineAdjustments }),
	amountField(domain.FieldSelfEmploymentNetProfit, "Self-employment net profit", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.SelfEmploymentNetProfit }),
	flagField("use_standard_deduction", "Use standard deduction", func(in *domain.WorksheetInputs) *bool { return &in.UseStandardDeduction }),
	amountField(domain.FieldItemizedDeductions, "Itemized deductions", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.ItemizedDeductions }),
	flagField("expects_qbi_deduction", "Expects QBI deduction", func(in *domain.WorksheetInputs) *bool { return &in.ExpectsQBIDeduction }),
	amountField(domain.FieldQBIAmount, "QBI deduction", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.QBIAmount }),
	amountField(domain.FieldAMT, "Alternative minimum tax", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.AMT }),
	amountField(domain.FieldOtherTaxes, "Other taxes", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.OtherTaxes }),
	amountField(domain.FieldNonrefundableCredits, "Nonrefundable credits", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.NonrefundableCredits }),
	amountField(domain.FieldRefundableCredits, "Refundable credits", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.RefundableCredits }),
	amountField(domain.FieldIncomeTaxWithheld, "Income tax withheld", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.IncomeTaxWithheld }),
	amountField(domain.FieldAdditionalMedicare, "Additional Medicare withheld", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.AdditionalMedicareWithholding }),
	amountField(domain.FieldPriorYearTotalTax, "Prior-year total tax", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.PriorYearTotalTax }),
	flagField("high_income_prior_year", "High income prior year", func(in *domain.WorksheetInputs) *bool { return &in.HighIncomePriorYear }),
	flagField("farmer_or_fisher", "Farmer or fisher", func(in *domain.WorksheetInputs) *bool { return &in.FarmerOrFisher }),
	amountField(domain.FieldOverpaymentApplied, "Overpayment applied to Q1", func(in *domain.WorksheetInputs) **decimal.Decimal { return &in.OverpaymentAppliedFirstInstallment }),
}

func amountField(key, label string, f func(*domain.WorksheetInputs) **decimal.Decimal) formField {
	return formField{Key: key, Label: label, Kind: kindAmount, amount: f}
}

func flagField(key, label string, f func(*domain.WorksheetInputs) *bool) formField {
	return formField{Key: key, Label: label, Kind: kindFlag, flag: f}
}

// fieldIndex returns the position of the field with the given key, or -1.
func fieldIndex(key string) int {
	for i, f := range worksheetFields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// parseAmount reads an edited amount. Blank text is an absent value. Dollar
// signs and thousands separators are accepted.
func parseAmount(text string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("not a number")
	}
	return &d, nil
}

// amountText renders a stored amount for editing.
func amountText(p *decimal.Decimal) string {
	if p == nil {
		return ""
	}
	return p.String()
}

// cycleStatus moves through the filing statuses by step, wrapping at either end.
func cycleStatus(current domain.FilingStatus, step int) domain.FilingStatus {
	n := len(domain.FilingStatuses)
	idx := 0
	for i, fs := range domain.FilingStatuses {
		if fs == current {
			idx = i
			break
		}
	}
	return domain.FilingStatuses[((idx+step)%n+n)%n]
}

// cycleYear moves through the configured years by step, wrapping at either end.
func cycleYear(years []int, current, step int) int {
	if len(years) == 0 {
		return current
	}
	idx := 0
	for i, y := range years {
		if y == current {
			idx = i
			break
		}
	}
	n := len(years)
	return years[((idx+step)%n+n)%n]
}
