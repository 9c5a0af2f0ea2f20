package domain

import (
	"fmt"
	"strings"
)

// FilingStatus is the worksheet filing status.
type FilingStatus string

const (
	Single                    FilingStatus = "single"
	MarriedFilingJointly      FilingStatus = "married_filing_jointly"
	MarriedFilingSeparately   FilingStatus = "married_filing_separately"
	HeadOfHousehold           FilingStatus = "head_of_household"
	QualifyingSurvivingSpouse FilingStatus = "qualifying_surviving_spouse"
)

// FilingStatuses lists every worksheet filing status in schedule order.
var FilingStatuses = []FilingStatus{
	Single,
	MarriedFilingJointly,
	MarriedFilingSeparately,
	HeadOfHousehold,
	QualifyingSurvivingSpouse,
}

// Valid reports whether fs is one of the closed set of worksheet statuses.
func (fs FilingStatus) Valid() bool {
	for _, s := range FilingStatuses {
		if fs == s {
			return true
		}
	}
	return false
}

// ParseFilingStatus accepts the canonical names plus a few common abbreviations.
func ParseFilingStatus(s string) (FilingStatus, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "mfj":
		n = string(MarriedFilingJointly)
	case "mfs":
		n = string(MarriedFilingSeparately)
	case "hoh":
		n = string(HeadOfHousehold)
	case "qss", "qw":
		n = string(QualifyingSurvivingSpouse)
	}
	fs := FilingStatus(n)
	if !fs.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilingStatus, s)
	}
	return fs, nil
}

// LegacyFilingStatus is the narrower status set used by the dashboard estimator
// and the legacy 1040-ES computation. It shares no values with FilingStatus.
type LegacyFilingStatus string

const (
	LegacySingle          LegacyFilingStatus = "single"
	LegacyMarriedJoint    LegacyFilingStatus = "married_joint"
	LegacyMarriedSeparate LegacyFilingStatus = "married_separate"
	LegacyHead            LegacyFilingStatus = "head"
)

// LegacyFilingStatuses lists the legacy statuses.
var LegacyFilingStatuses = []LegacyFilingStatus{LegacySingle, LegacyMarriedJoint, LegacyMarriedSeparate, LegacyHead}

// Valid reports whether ls is a legacy status.
func (ls LegacyFilingStatus) Valid() bool {
	for _, s := range LegacyFilingStatuses {
		if ls == s {
			return true
		}
	}
	return false
}

// ParseLegacyFilingStatus parses a legacy status name.
func ParseLegacyFilingStatus(s string) (LegacyFilingStatus, error) {
	ls := LegacyFilingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !ls.Valid() {
		return "", fmt.Errorf("%w: %q (legacy)", ErrInvalidFilingStatus, s)
	}
	return ls, nil
}

// legacyStatusTable is the explicit translation between the two status spaces.
// A surviving spouse files on joint rates, so it maps to married_joint.
var legacyStatusTable = map[FilingStatus]LegacyFilingStatus{
	Single:                    LegacySingle,
	MarriedFilingJointly:      LegacyMarriedJoint,
	MarriedFilingSeparately:   LegacyMarriedSeparate,
	HeadOfHousehold:           LegacyHead,
	QualifyingSurvivingSpouse: LegacyMarriedJoint,
}

// LegacyStatusFor translates a worksheet status into the legacy status space.
func LegacyStatusFor(fs FilingStatus) (LegacyFilingStatus, error) {
	ls, ok := legacyStatusTable[fs]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilingStatus, fs)
	}
	return ls, nil
}
