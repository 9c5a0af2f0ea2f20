package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/estax/internal/domain"
	"gopkg.in/yaml.v3"
)

// WorksheetDocument is the YAML input of the worksheet commands: the worksheet
// inputs at top level plus the optional identity and payment blocks used when
// populating vouchers and the payment record.
type WorksheetDocument struct {
	domain.WorksheetInputs `yaml:",inline"`

	Rounding      domain.RoundingMode   `yaml:"rounding"`
	Taxpayer      *domain.Taxpayer      `yaml:"taxpayer"`
	PriorPayments []domain.PriorPayment `yaml:"prior_payments"`
}

// InputParser handles parsing of input documents
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadWorksheet loads a worksheet document from a YAML file
func (ip *InputParser) LoadWorksheet(filename string) (*WorksheetDocument, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseWorksheet(data)
}

// ParseWorksheet decodes and validates a worksheet document
func (ip *InputParser) ParseWorksheet(data []byte) (*WorksheetDocument, error) {
	var doc WorksheetDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateWorksheet(&doc); err != nil {
		return nil, fmt.Errorf("worksheet validation failed: %w", err)
	}
	return &doc, nil
}

// ValidateWorksheet checks the fields the engine cannot default. Absent or
// negative amounts are not errors here; the engine reports them as warnings.
func (ip *InputParser) ValidateWorksheet(doc *WorksheetDocument) error {
	if doc.TaxYear <= 0 {
		return fmt.Errorf("tax_year is required")
	}
	fs, err := domain.ParseFilingStatus(string(doc.FilingStatus))
	if err != nil {
		return err
	}
	doc.FilingStatus = fs
	for status, sched := range doc.ScheduleOverride {
		if !status.Valid() {
			return fmt.Errorf("schedule_override: %w: %q", domain.ErrInvalidFilingStatus, status)
		}
		if err := ValidateSchedule(sched); err != nil {
			return &domain.ConfigurationError{Year: doc.TaxYear, Status: status, Reason: "schedule_override: " + err.Error()}
		}
	}
	return nil
}

// LoadVoucher loads the input of the legacy 1040-ES computation
func (ip *InputParser) LoadVoucher(filename string) (*domain.Irs1040EsInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var in domain.Irs1040EsInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if in.TaxYear <= 0 {
		return nil, fmt.Errorf("voucher validation failed: tax_year is required")
	}
	if in.FilingStatus != "" {
		ls, err := domain.ParseLegacyFilingStatus(string(in.FilingStatus))
		if err != nil {
			return nil, fmt.Errorf("voucher validation failed: %w", err)
		}
		in.FilingStatus = ls
	}
	if !in.SafeHarbor.Valid() {
		return nil, fmt.Errorf("voucher validation failed: unknown safe_harbor %q", in.SafeHarbor)
	}
	return &in, nil
}

// LoadHousehold loads a household summary for the estimator comparison
func (ip *InputParser) LoadHousehold(filename string) (*domain.HouseholdSummary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	var hs domain.HouseholdSummary
	if err := yaml.Unmarshal(data, &hs); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if hs.TaxYear <= 0 {
		return nil, fmt.Errorf("household validation failed: tax_year is required")
	}
	fs, err := domain.ParseFilingStatus(string(hs.FilingStatus))
	if err != nil {
		return nil, fmt.Errorf("household validation failed: %w", err)
	}
	hs.FilingStatus = fs
	return &hs, nil
}

// LoadFieldList reads target field identifiers, one per line. Blank lines and
// lines starting with '#' are skipped.
func (ip *InputParser) LoadFieldList(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ParseFieldList(data)
}

// ParseFieldList splits a field list document into identifiers.
func ParseFieldList(data []byte) ([]string, error) {
	var fields []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields = append(fields, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan field list: %w", err)
	}
	return fields, nil
}
