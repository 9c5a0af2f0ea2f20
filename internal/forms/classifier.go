package forms

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/rgehrsitz/estax/internal/domain"
)

// Target is a named source value a field can be assigned from.
type Target string

// Identity, voucher and payment-record targets. Worksheet lines use LineTarget.
const (
	TargetSSN            Target = "taxpayer.ssn"
	TargetName           Target = "taxpayer.name"
	TargetAddress1       Target = "taxpayer.address1"
	TargetAddress2       Target = "taxpayer.address2"
	TargetCity           Target = "taxpayer.city"
	TargetState          Target = "taxpayer.state"
	TargetZip            Target = "taxpayer.zip"
	TargetVoucherAmount  Target = "voucher.amount"
	TargetTotalPayments  Target = "payments.total"
	targetQuarterPrefix         = "payments.q"
	targetLinePrefix            = "worksheet."
)

// QuarterAmountTarget is the amount paid for a quarter (1-4).
func QuarterAmountTarget(q int) Target {
	return Target(targetQuarterPrefix + strconv.Itoa(q) + ".amount")
}

// QuarterDateTarget is the payment date for a quarter (1-4).
func QuarterDateTarget(q int) Target {
	return Target(targetQuarterPrefix + strconv.Itoa(q) + ".date")
}

// LineTarget is a worksheet line value.
func LineTarget(l domain.Line) Target { return Target(targetLinePrefix + string(l)) }

// KeywordRule assigns Target to any field whose normalized name contains every
// phrase of at least one alternative and none of the Exclude phrases. Phrases
// match whole words only.
type KeywordRule struct {
	Target       Target
	Alternatives [][]string
	Exclude      []string
}

func (kr KeywordRule) matches(normalized string) bool {
	padded := " " + normalized + " "
	for _, ex := range kr.Exclude {
		if strings.Contains(padded, " "+ex+" ") {
			return false
		}
	}
	for _, alt := range kr.Alternatives {
		all := true
		for _, phrase := range alt {
			if !strings.Contains(padded, " "+phrase+" ") {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// Normalize lower-cases a field name, turns separators into spaces, splits
// letter-to-digit transitions and collapses whitespace: "Q1_Amount" -> "q 1 amount".
func Normalize(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range strings.ToLower(name) {
		switch r {
		case '_', '-', '.', '[', ']', '/':
			r = ' '
		}
		if unicode.IsDigit(r) && unicode.IsLetter(prev) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// DefaultRules is the ordered keyword rule list. Order decides the winner when
// several distinct targets match one field.
func DefaultRules() []KeywordRule {
	rules := []KeywordRule{
		{Target: TargetSSN, Alternatives: [][]string{{"ssn"}, {"social"}}},
		{Target: TargetName, Alternatives: [][]string{{"name"}}},
		{Target: TargetAddress1, Alternatives: [][]string{{"address", "1"}, {"street"}}},
		{Target: TargetAddress2, Alternatives: [][]string{{"address", "2"}, {"apt"}}},
		{Target: TargetCity, Alternatives: [][]string{{"city"}}},
		{Target: TargetState, Alternatives: [][]string{{"state"}}},
		{Target: TargetZip, Alternatives: [][]string{{"zip"}, {"postal"}}},
	}
	for q := 1; q <= 4; q++ {
		n := strconv.Itoa(q)
		rules = append(rules,
			KeywordRule{Target: QuarterAmountTarget(q), Alternatives: [][]string{{"q " + n, "amount"}, {"quarter " + n, "amount"}, {"q " + n, "paid"}, {"quarter " + n, "paid"}}},
			KeywordRule{Target: QuarterDateTarget(q), Alternatives: [][]string{{"q " + n, "date"}, {"quarter " + n, "date"}}},
		)
	}
	rules = append(rules,
		KeywordRule{Target: TargetTotalPayments, Alternatives: [][]string{{"total", "payments"}, {"total", "payment"}, {"total", "paid"}}},
		KeywordRule{
			Target:       TargetVoucherAmount,
			Alternatives: [][]string{{"voucher"}, {"amount"}},
			Exclude:      []string{"q", "quarter", "total", "line"},
		},
	)
	for _, l := range domain.WorksheetLineOrder {
		rules = append(rules, KeywordRule{Target: LineTarget(l), Alternatives: [][]string{{"line " + l.Label()}}})
	}
	return rules
}

// Classify returns the distinct targets whose rules match name, in rule order.
func Classify(rules []KeywordRule, name string) []Target {
	n := Normalize(name)
	var out []Target
	seen := make(map[Target]bool)
	for _, r := range rules {
		if !seen[r.Target] && r.matches(n) {
			seen[r.Target] = true
			out = append(out, r.Target)
		}
	}
	return out
}
