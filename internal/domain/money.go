package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RoundingMode selects the output precision of a computation.
type RoundingMode int

const (
	// RoundDollars rounds to whole dollars (the worksheet default).
	RoundDollars RoundingMode = iota
	// RoundCents rounds to two decimal places.
	RoundCents
)

func (rm RoundingMode) String() string {
	switch rm {
	case RoundDollars:
		return "dollars"
	case RoundCents:
		return "cents"
	default:
		return "unknown"
	}
}

// Places returns the decimal places kept by the mode.
func (rm RoundingMode) Places() int32 {
	if rm == RoundCents {
		return 2
	}
	return 0
}

// Round rounds d half away from zero: under 50 cents drops, 50 to 99 cents rounds up.
func (rm RoundingMode) Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(rm.Places())
}

// Format renders d at the mode's precision.
func (rm RoundingMode) Format(d decimal.Decimal) string {
	return rm.Round(d).StringFixed(rm.Places())
}

// MarshalText implements encoding.TextMarshaler.
func (rm RoundingMode) MarshalText() ([]byte, error) { return []byte(rm.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (rm *RoundingMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "", "dollars", "dollar", "whole":
		*rm = RoundDollars
	case "cents", "cent":
		*rm = RoundCents
	default:
		return fmt.Errorf("unknown rounding mode %q", string(b))
	}
	return nil
}

// RoundingStrategy selects when rounding is applied.
type RoundingStrategy int

const (
	// RoundPerLine rounds every worksheet line before later lines consume it.
	RoundPerLine RoundingStrategy = iota
	// RoundOnce carries full precision through the worksheet and rounds only the reported lines.
	RoundOnce
)

func (rs RoundingStrategy) String() string {
	if rs == RoundOnce {
		return "once"
	}
	return "per_line"
}

// Money helpers used across calculators.

// MaxZero returns d, or zero if d is negative.
func MaxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Deref returns *p, or zero if p is nil.
func Deref(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}

// Dec is a convenience for building optional decimal inputs.
func Dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DecStr parses s into an optional decimal and panics on bad syntax. Intended for
// literals in tests and tables.
func DecStr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// FormatCurrency formats a decimal as USD with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }
