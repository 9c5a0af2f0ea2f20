package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// DefaultRulesYAML returns the embedded rule book source.
func DefaultRulesYAML() []byte { return defaultRulesYAML }

// DefaultRules parses and validates the embedded rule book.
func DefaultRules() (*domain.RuleBook, error) {
	rb, err := ParseRules(defaultRulesYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded rules: %w", err)
	}
	return rb, nil
}

// LoadRules loads a rule book from path, or the embedded default when path is empty.
func LoadRules(path string) (*domain.RuleBook, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	rb, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rb, nil
}

// ParseRules decodes a rule book document and validates every schedule in it.
func ParseRules(data []byte) (*domain.RuleBook, error) {
	var rb domain.RuleBook
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for y, r := range rb.Years {
		if r.Year == 0 {
			r.Year = y
			rb.Years[y] = r
		}
	}
	if err := ValidateRuleBook(&rb); err != nil {
		return nil, err
	}
	return &rb, nil
}

// ValidateRuleBook checks every year's tables. The first problem found is returned
// as a *domain.ConfigurationError.
func ValidateRuleBook(rb *domain.RuleBook) error {
	if len(rb.Years) == 0 {
		return &domain.ConfigurationError{Reason: "no tax years configured"}
	}
	for _, year := range rb.AvailableYears() {
		r := rb.Years[year]
		if r.Year != year {
			return &domain.ConfigurationError{Year: year, Reason: fmt.Sprintf("year key %d does not match year field %d", year, r.Year)}
		}
		for _, fs := range domain.FilingStatuses {
			sched, ok := r.Schedules[fs]
			if !ok {
				return &domain.ConfigurationError{Year: year, Status: fs, Reason: "no rate schedule"}
			}
			if err := ValidateSchedule(sched); err != nil {
				return &domain.ConfigurationError{Year: year, Status: fs, Reason: err.Error()}
			}
			d, ok := r.StandardDeduction[fs]
			if !ok {
				return &domain.ConfigurationError{Year: year, Status: fs, Reason: "no standard deduction"}
			}
			if d.IsNegative() {
				return &domain.ConfigurationError{Year: year, Status: fs, Reason: "negative standard deduction"}
			}
		}
		for fs := range r.Schedules {
			if !fs.Valid() {
				return &domain.ConfigurationError{Year: year, Status: fs, Err: domain.ErrInvalidFilingStatus}
			}
		}
		if r.SSWageBase != nil && !r.SSWageBase.IsPositive() {
			return &domain.ConfigurationError{Year: year, Reason: "ss_wage_base must be positive"}
		}
	}
	if err := validateLegacy(rb.LegacyEstimator); err != nil {
		return &domain.ConfigurationError{Reason: "legacy_estimator: " + err.Error()}
	}
	return nil
}

// ValidateSchedule checks the structural invariants of a rate schedule: the
// first bracket starts at zero, brackets are contiguous and ascending, only the
// last is unbounded, rates lie in [0, 1] and each base equals the previous base
// plus the previous bracket's full-width tax.
func ValidateSchedule(sched []domain.RateBracket) error {
	if len(sched) == 0 {
		return fmt.Errorf("empty schedule")
	}
	if !sched[0].Lower.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", sched[0].Lower)
	}
	if !sched[0].Base.IsZero() {
		return fmt.Errorf("first bracket base must be 0, got %s", sched[0].Base)
	}
	one := decimal.NewFromInt(1)
	for i, b := range sched {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("bracket %d: rate %s outside [0, 1]", i, b.Rate)
		}
		last := i == len(sched)-1
		if b.Unbounded() != last {
			if last {
				return fmt.Errorf("bracket %d: last bracket must be unbounded", i)
			}
			return fmt.Errorf("bracket %d: only the last bracket may be unbounded", i)
		}
		if last {
			break
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("bracket %d: upper %s not above lower %s", i, b.Upper, b.Lower)
		}
		next := sched[i+1]
		if !next.Lower.Equal(*b.Upper) {
			return fmt.Errorf("bracket %d: lower %s does not continue previous upper %s", i+1, next.Lower, b.Upper)
		}
		want := b.Base.Add(b.Upper.Sub(b.Lower).Mul(b.Rate))
		if !next.Base.Equal(want) {
			return fmt.Errorf("bracket %d: base %s, expected %s", i+1, next.Base, want)
		}
	}
	return nil
}

func validateLegacy(l domain.LegacyEstimatorRules) error {
	if len(l.Brackets) == 0 {
		return fmt.Errorf("no brackets")
	}
	if !l.NetEarningsFactor.IsPositive() || !l.SETaxRate.IsPositive() {
		return fmt.Errorf("net_earnings_factor and se_tax_rate must be positive")
	}
	prev := decimal.Zero
	for i, b := range l.Brackets {
		last := i == len(l.Brackets)-1
		if (b.UpTo == nil) != last {
			return fmt.Errorf("bracket %d: only the last bracket may omit up_to", i)
		}
		if b.UpTo != nil {
			if !b.UpTo.GreaterThan(prev) {
				return fmt.Errorf("bracket %d: up_to %s not ascending", i, b.UpTo)
			}
			prev = *b.UpTo
		}
	}
	return nil
}
