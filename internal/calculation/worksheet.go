package calculation

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// DeMinimisThreshold is the line 14b amount below which no estimated payments are required.
var DeMinimisThreshold = decimal.NewFromInt(1000)

// WorksheetEngine computes the Form 1040-ES Estimated Tax Worksheet line by line.
// It holds no per-call state and is safe for concurrent use once configured.
type WorksheetEngine struct {
	Rules    *domain.RuleBook
	Rounding domain.RoundingMode
	Strategy domain.RoundingStrategy
	Logger   Logger
}

// NewWorksheetEngine creates an engine rounding per line to whole dollars
func NewWorksheetEngine(rules *domain.RuleBook) *WorksheetEngine {
	return &WorksheetEngine{
		Rules:    rules,
		Rounding: domain.RoundDollars,
		Strategy: domain.RoundPerLine,
		Logger:   NopLogger{},
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (we *WorksheetEngine) SetLogger(l Logger) {
	if l == nil {
		we.Logger = NopLogger{}
		return
	}
	we.Logger = l
}

// worksheetRun carries the bookkeeping of a single Compute call.
type worksheetRun struct {
	missing  []string
	warnings []domain.Warning
	round    func(decimal.Decimal) decimal.Decimal
}

func (wr *worksheetRun) markMissing(field, message string) {
	wr.missing = append(wr.missing, field)
	wr.warnings = append(wr.warnings, domain.Warning{Kind: domain.MissingInput, Field: field, Message: message})
}

// amount returns a non-negative input value and whether it was supplied.
// Negative values are clamped to zero and flagged.
func (wr *worksheetRun) amount(field string, p *decimal.Decimal) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	if p.IsNegative() {
		wr.warnings = append(wr.warnings, domain.Warning{
			Kind:    domain.DomainViolation,
			Field:   field,
			Message: fmt.Sprintf("negative value %s clamped to 0", p.String()),
		})
		return decimal.Zero, true
	}
	return *p, true
}

// Compute runs the worksheet for in. Missing and out-of-range inputs are reported
// on the result; only an invalid filing status or unusable rule data is an error.
func (we *WorksheetEngine) Compute(in domain.WorksheetInputs) (*domain.WorksheetResult, error) {
	logger := we.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	if !in.FilingStatus.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilingStatus, in.FilingStatus)
	}
	rules, err := we.Rules.Year(in.TaxYear)
	if err != nil {
		return nil, err
	}

	perLine := we.Strategy == domain.RoundPerLine
	wr := &worksheetRun{round: func(d decimal.Decimal) decimal.Decimal { return d }}
	if perLine {
		wr.round = we.Rounding.Round
	}
	r := wr.round

	var lines domain.WorksheetLines

	// Self-employment tax feeds line 1 (half deduction) and line 9.
	var seDetail *domain.SelfEmploymentTaxDetail
	seBaseMissing := false
	if in.SelfEmploymentNetProfit != nil {
		base := rules.SSWageBase
		if v, ok := wr.amount(domain.FieldSSWageBase, in.SSWageBase); ok {
			base = &v
		}
		seBaseMissing = base == nil && in.SelfEmploymentNetProfit.IsPositive()
		seCalc := NewSelfEmploymentTaxCalculator()
		seCalc.Rounding = we.Rounding
		var detail domain.SelfEmploymentTaxDetail
		if perLine {
			detail = seCalc.Compute(*in.SelfEmploymentNetProfit, base)
		} else {
			detail = seCalc.compute(*in.SelfEmploymentNetProfit, base)
		}
		seDetail = &detail
		logger.Debugf("SE tax: net earnings %s, tax %s, half %s", detail.NetEarnings, detail.SETax, detail.HalfDeduction)
	}
	halfSE := decimal.Zero
	if seDetail != nil {
		halfSE = seDetail.HalfDeduction
	}

	// Line 1
	gross, ok := wr.amount(domain.FieldProjectedGrossIncome, in.ProjectedGrossIncome)
	if !ok {
		wr.markMissing(domain.FieldProjectedGrossIncome, "projected gross income not provided; line 1 uses 0")
	}
	aboveLine, _ := wr.amount(domain.FieldAboveLineAdjustments, in.AboveLineAdjustments)
	lines.Line1 = r(gross.Sub(aboveLine).Sub(halfSE))

	// Line 2a
	switch {
	case in.UseStandardDeduction:
		std, ok := wr.amount(domain.FieldStandardDeductionOverride, in.StandardDeductionOverride)
		if !ok {
			std, err = rules.StandardDeductionFor(in.FilingStatus)
			if err != nil {
				return nil, err
			}
		}
		lines.Line2a = r(std)
	case in.ItemizedDeductions != nil:
		itemized, _ := wr.amount(domain.FieldItemizedDeductions, in.ItemizedDeductions)
		lines.Line2a = r(itemized)
	default:
		wr.markMissing(domain.FieldDeductions, "neither the standard deduction nor itemized deductions were selected; line 2a uses 0")
	}

	// Line 2b
	if in.ExpectsQBIDeduction {
		qbi, ok := wr.amount(domain.FieldQBIAmount, in.QBIAmount)
		if !ok {
			wr.markMissing(domain.FieldQBIAmount, "QBI deduction expected but no amount given; line 2b uses 0")
		}
		lines.Line2b = r(qbi)
	}

	lines.Line2c = r(lines.Line2a.Add(lines.Line2b))
	lines.Line3 = r(domain.MaxZero(lines.Line1.Sub(lines.Line2c)))

	// Line 4
	incomeTax, err := NewBracketTaxCalculator(rules).ComputeTax(lines.Line3, in.FilingStatus, in.ScheduleOverride)
	if err != nil {
		return nil, fmt.Errorf("line 4: %w", err)
	}
	lines.Line4 = r(incomeTax)

	amt, _ := wr.amount(domain.FieldAMT, in.AMT)
	lines.Line5 = r(amt)

	otherTaxes, _ := wr.amount(domain.FieldOtherTaxes, in.OtherTaxes)
	lines.Line6 = r(lines.Line4.Add(lines.Line5).Add(otherTaxes))

	credits, _ := wr.amount(domain.FieldNonrefundableCredits, in.NonrefundableCredits)
	lines.Line7 = r(credits)
	lines.Line8 = r(domain.MaxZero(lines.Line6.Sub(lines.Line7)))

	// Line 9
	if seBaseMissing {
		wr.markMissing(domain.FieldSSWageBase, "no Social Security wage base; line 9 excludes the Social Security component")
	}
	if seDetail != nil {
		lines.Line9 = r(seDetail.SETax)
	}
	// Line 10 repeats other taxes; the same input is also an addend of line 6.
	lines.Line10 = r(otherTaxes)

	lines.Line11a = r(lines.Line8.Add(lines.Line9).Add(lines.Line10))
	refundable, _ := wr.amount(domain.FieldRefundableCredits, in.RefundableCredits)
	lines.Line11b = r(refundable)
	lines.Line11c = r(domain.MaxZero(lines.Line11a.Sub(lines.Line11b)))

	// Line 12a
	if in.FarmerOrFisher {
		lines.Line12a = r(lines.Line11c.Mul(decimal.NewFromInt(2)).Div(decimal.NewFromInt(3)))
	} else {
		lines.Line12a = r(lines.Line11c.Mul(decimal.RequireFromString("0.9")))
	}

	// Line 12b
	prior, ok := wr.amount(domain.FieldPriorYearTotalTax, in.PriorYearTotalTax)
	if !ok {
		wr.markMissing(domain.FieldPriorYearTotalTax, "prior-year total tax not provided; line 12b uses 0")
	}
	addlMedicare, _ := wr.amount(domain.FieldAdditionalMedicare, in.AdditionalMedicareWithholding)
	shCalc := NewSafeHarborCalculator()
	shCalc.Rounding = we.Rounding
	if perLine {
		lines.Line12b = r(shCalc.Compute(prior, in.HighIncomePriorYear, addlMedicare))
	} else {
		lines.Line12b = shCalc.compute(prior, in.HighIncomePriorYear, addlMedicare)
	}

	lines.Line12c = r(decimal.Min(lines.Line12a, lines.Line12b))

	withheld, _ := wr.amount(domain.FieldIncomeTaxWithheld, in.IncomeTaxWithheld)
	lines.Line13 = r(withheld)

	lines.Line14a = r(lines.Line12c.Sub(lines.Line13))
	lines.Line14b = r(lines.Line11c.Sub(lines.Line13))

	// Line 15
	perInstallment := r(lines.Line14a.Div(decimal.NewFromInt(4)))
	overpayment, _ := wr.amount(domain.FieldOverpaymentApplied, in.OverpaymentAppliedFirstInstallment)
	lines.Line15 = r(domain.MaxZero(perInstallment.Sub(overpayment)))

	if !perLine {
		for _, l := range domain.WorksheetLineOrder {
			v, _ := lines.Value(l)
			lines.Set(l, we.Rounding.Round(v))
		}
		if seDetail != nil {
			seDetail.SETax = we.Rounding.Round(seDetail.SETax)
			seDetail.HalfDeduction = we.Rounding.Round(seDetail.HalfDeduction)
			seDetail.NetEarnings = we.Rounding.Round(seDetail.NetEarnings)
		}
	}

	result := &domain.WorksheetResult{
		WorksheetLines: lines,
		TaxYear:        in.TaxYear,
		FilingStatus:   in.FilingStatus,
		Rounding:       we.Rounding,
		Decision:       Decide(lines.Line14a, lines.Line14b),
		MissingInputs:  wr.missing,
		Warnings:       wr.warnings,
		Explainers:     Explainers(in.TaxYear),
		SETaxDetail:    seDetail,
	}
	if result.MissingInputs == nil {
		result.MissingInputs = []string{}
	}

	for _, l := range domain.WorksheetLineOrder {
		v, _ := result.Value(l)
		logger.Debugf("line %-3s = %s", l.Label(), we.Rounding.Format(v))
	}
	for _, w := range result.Warnings {
		logger.Warnf("%s", w)
	}
	logger.Infof("worksheet %d %s: require payments=%t (%s)", in.TaxYear, in.FilingStatus, result.Decision.RequirePayments, result.Decision.Reason)

	return result, nil
}

// Decide applies the payment-requirement rule to lines 14a and 14b.
func Decide(line14a, line14b decimal.Decimal) domain.PaymentDecision {
	if !line14a.IsPositive() {
		return domain.PaymentDecision{RequirePayments: false, Reason: domain.ReasonLine14aNotPositive}
	}
	if line14b.IsPositive() && line14b.LessThan(DeMinimisThreshold) {
		return domain.PaymentDecision{RequirePayments: false, Reason: domain.ReasonDeMinimis}
	}
	return domain.PaymentDecision{RequirePayments: true, Reason: domain.ReasonPaymentsRequired}
}

// Explainers returns the per-line descriptions for a tax year.
func Explainers(year int) map[domain.Line]string {
	return map[domain.Line]string{
		domain.Line1:   fmt.Sprintf("Line 1: adjusted gross income you expect in %d, after the deductible half of SE tax", year),
		domain.Line2a:  "Line 2a: standard deduction or itemized deductions",
		domain.Line2b:  "Line 2b: qualified business income deduction",
		domain.Line2c:  "Line 2c: add lines 2a and 2b",
		domain.Line3:   "Line 3: line 1 minus line 2c (not less than 0)",
		domain.Line4:   fmt.Sprintf("Line 4: tax on line 3 using the %d Tax Rate Schedules", year),
		domain.Line5:   "Line 5: alternative minimum tax (Form 6251)",
		domain.Line6:   "Line 6: add lines 4 and 5 and other taxes on Form 1040 line 16",
		domain.Line7:   "Line 7: nonrefundable credits",
		domain.Line8:   "Line 8: line 6 minus line 7 (not less than 0)",
		domain.Line9:   "Line 9: self-employment tax",
		domain.Line10:  "Line 10: other taxes",
		domain.Line11a: "Line 11a: add lines 8 through 10",
		domain.Line11b: "Line 11b: refundable credits",
		domain.Line11c: fmt.Sprintf("Line 11c: total %d estimated tax, line 11a minus 11b (not less than 0)", year),
		domain.Line12a: "Line 12a: 90% of line 11c (66 2/3% for farmers and fishers)",
		domain.Line12b: fmt.Sprintf("Line 12b: %d tax (110%% if prior-year AGI exceeded the high-income threshold)", year-1),
		domain.Line12c: "Line 12c: required annual payment, the smaller of 12a or 12b",
		domain.Line13:  fmt.Sprintf("Line 13: income tax expected to be withheld in %d", year),
		domain.Line14a: "Line 14a: line 12c minus line 13",
		domain.Line14b: "Line 14b: line 11c minus line 13",
		domain.Line15:  "Line 15: one quarter of line 14a, minus overpayment applied to the first installment",
	}
}
