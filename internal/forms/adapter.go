package forms

import (
	"sort"
	"strings"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
)

// Confidence tags how an assignment was found.
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"
	ConfidenceKeyword   Confidence = "keyword"
	ConfidenceAmbiguous Confidence = "ambiguous"
)

// Assignment is "substitute Value into field Field".
type Assignment struct {
	Field      string     `json:"field" yaml:"field"`
	Value      string     `json:"value" yaml:"value"`
	Target     Target     `json:"target" yaml:"target"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
}

// Mapping is the adapter output. All lists are sorted by field identifier.
type Mapping struct {
	Assignments []Assignment `json:"assignments" yaml:"assignments"`
	// Unmatched fields had no rule, or a rule whose source value is absent.
	Unmatched []string `json:"unmatched" yaml:"unmatched"`
	// Ambiguous fields matched several targets; they are also assigned, to the first by rule order.
	Ambiguous []string `json:"ambiguous" yaml:"ambiguous"`
}

// Values returns the assignments as a field -> value map.
func (m Mapping) Values() map[string]string {
	out := make(map[string]string, len(m.Assignments))
	for _, a := range m.Assignments {
		out[a.Field] = a.Value
	}
	return out
}

// FormContext carries the non-worksheet sources: identity, payment records
// and the voucher amount.
type FormContext struct {
	Taxpayer *domain.Taxpayer
	Payments []domain.PriorPayment
	// VoucherAmount defaults to worksheet line 15 when nil.
	VoucherAmount *decimal.Decimal
}

// Adapter maps worksheet results onto document fields
type Adapter struct {
	Rules []KeywordRule
}

// NewAdapter creates an adapter with the default keyword rules
func NewAdapter() *Adapter {
	return &Adapter{Rules: DefaultRules()}
}

// Map assigns a value to every field it can place. Exact worksheet identifiers
// are looked up first; everything else goes through the keyword rules.
func (a *Adapter) Map(result *domain.WorksheetResult, ctx FormContext, fields []string) Mapping {
	m := Mapping{Assignments: []Assignment{}, Unmatched: []string{}, Ambiguous: []string{}}
	src := sources{result: result, ctx: ctx}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true

		if l, ok := worksheetFields[f]; ok {
			if v, ok := src.value(LineTarget(l)); ok {
				m.Assignments = append(m.Assignments, Assignment{Field: f, Value: v, Target: LineTarget(l), Confidence: ConfidenceExact})
			} else {
				m.Unmatched = append(m.Unmatched, f)
			}
			continue
		}

		targets := Classify(a.Rules, f)
		if len(targets) == 0 {
			m.Unmatched = append(m.Unmatched, f)
			continue
		}
		v, ok := src.value(targets[0])
		if !ok {
			m.Unmatched = append(m.Unmatched, f)
			continue
		}
		conf := ConfidenceKeyword
		if len(targets) > 1 {
			conf = ConfidenceAmbiguous
			m.Ambiguous = append(m.Ambiguous, f)
		}
		m.Assignments = append(m.Assignments, Assignment{Field: f, Value: v, Target: targets[0], Confidence: conf})
	}

	sort.Slice(m.Assignments, func(i, j int) bool { return m.Assignments[i].Field < m.Assignments[j].Field })
	sort.Strings(m.Unmatched)
	sort.Strings(m.Ambiguous)
	return m
}

type sources struct {
	result *domain.WorksheetResult
	ctx    FormContext
}

func (s sources) value(t Target) (string, bool) {
	if strings.HasPrefix(string(t), targetLinePrefix) {
		if s.result == nil {
			return "", false
		}
		l := domain.Line(strings.TrimPrefix(string(t), targetLinePrefix))
		if _, ok := s.result.Value(l); !ok {
			return "", false
		}
		return s.result.FormatLine(l), true
	}

	switch t {
	case TargetSSN, TargetName, TargetAddress1, TargetAddress2, TargetCity, TargetState, TargetZip:
		return s.identity(t)
	case TargetVoucherAmount:
		if s.ctx.VoucherAmount != nil {
			return s.ctx.VoucherAmount.StringFixed(2), true
		}
		if s.result != nil {
			return s.result.Line15.StringFixed(2), true
		}
		return "", false
	case TargetTotalPayments:
		if len(s.ctx.Payments) == 0 {
			return "", false
		}
		total := decimal.Zero
		for _, p := range s.ctx.Payments {
			total = total.Add(p.Amount)
		}
		return total.StringFixed(2), true
	}

	for q := 1; q <= 4; q++ {
		switch t {
		case QuarterAmountTarget(q):
			if p, ok := s.payment(q); ok {
				return p.Amount.StringFixed(2), true
			}
			return "", false
		case QuarterDateTarget(q):
			if p, ok := s.payment(q); ok && p.Date != "" {
				return p.Date, true
			}
			return "", false
		}
	}
	return "", false
}

// payment returns the first recorded payment for quarter q.
func (s sources) payment(q int) (domain.PriorPayment, bool) {
	for _, p := range s.ctx.Payments {
		if p.Quarter == q {
			return p, true
		}
	}
	return domain.PriorPayment{}, false
}

func (s sources) identity(t Target) (string, bool) {
	tp := s.ctx.Taxpayer
	if tp == nil {
		return "", false
	}
	var v string
	switch t {
	case TargetSSN:
		v = tp.SSN
	case TargetName:
		v = tp.Name
	case TargetAddress1:
		v = tp.AddressLine1
	case TargetAddress2:
		v = tp.AddressLine2
	case TargetCity:
		v = tp.City
	case TargetState:
		v = tp.State
	case TargetZip:
		v = tp.Zip
	}
	return v, v != ""
}
