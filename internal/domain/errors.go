package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidFilingStatus is returned for a filing status outside the closed set.
var ErrInvalidFilingStatus = errors.New("invalid filing status")

// ErrUnknownTaxYear is wrapped by ConfigurationError when no rules exist for a year.
var ErrUnknownTaxYear = errors.New("no rules for tax year")

// ConfigurationError reports a missing or malformed rate table. It is a
// programmer/data error and is always fatal to the computation.
type ConfigurationError struct {
	Year   int
	Status FilingStatus
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Year != 0 {
		msg += fmt.Sprintf(" (tax year %d", e.Year)
		if e.Status != "" {
			msg += fmt.Sprintf(", %s", e.Status)
		}
		msg += ")"
	} else if e.Status != "" {
		msg += fmt.Sprintf(" (%s)", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// WarningKind classifies non-fatal findings attached to a result.
type WarningKind string

const (
	// MissingInput: a required field was absent and zero was used in its place.
	MissingInput WarningKind = "missing_input"
	// DomainViolation: a negative value was supplied where the domain forbids it; it was clamped to zero.
	DomainViolation WarningKind = "domain_violation"
)

// Warning is a soft finding surfaced to the end consumer.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Field   string      `json:"field" yaml:"field"`
	Message string      `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Kind, w.Field, w.Message)
}
