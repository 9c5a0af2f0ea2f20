package output

import (
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/rgehrsitz/estax/internal/calculation"
	"github.com/rgehrsitz/estax/internal/config"
	"github.com/rgehrsitz/estax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func buildTestResult(t *testing.T) *domain.WorksheetResult {
	t.Helper()
	rules, err := config.DefaultRules()
	require.NoError(t, err)
	res, err := calculation.NewWorksheetEngine(rules).Compute(domain.WorksheetInputs{
		TaxYear:                 2024,
		FilingStatus:            domain.Single,
		ProjectedGrossIncome:    domain.Dec(50000),
		SelfEmploymentNetProfit: domain.Dec(50000),
		UseStandardDeduction:    true,
		PriorYearTotalTax:       domain.Dec(5000),
		IncomeTaxWithheld:       domain.Dec(-20),
	})
	require.NoError(t, err)
	return res
}

func TestFormatterFunc_Format(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(result *domain.WorksheetResult) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	out, err := formatter.Format(buildTestResult(t))
	assert.NoError(t, err, "Should not error")
	assert.True(t, called, "Should call the function")
	assert.Equal(t, []byte("test output"), out, "Should return the function output")
	assert.Equal(t, "test-formatter", formatter.Name(), "Should return the ID")
}

func TestWriteFormatted(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(originalDir)

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(result *domain.WorksheetResult) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestResult(t), "txt")
	assert.NoError(t, err, "Should not error")
	assert.Contains(t, filename, "estax_worksheet_2024_", "Should have correct prefix")
	assert.Contains(t, filename, ".txt", "Should have correct extension")

	content, err := os.ReadFile(filename)
	assert.NoError(t, err, "Should be able to read the file")
	assert.Equal(t, "test output content", string(content), "Should have correct content")
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(result *domain.WorksheetResult) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestResult(t), "txt")
	assert.Error(t, err, "Should error when formatter fails")
	assert.Empty(t, filename, "Should return empty filename on error")
	assert.Contains(t, err.Error(), "formatter error", "Should propagate formatter error")
}

func TestConsoleFormatter_Format(t *testing.T) {
	formatter := ConsoleFormatter{}
	assert.Equal(t, "console", formatter.Name())

	out, err := formatter.Format(buildTestResult(t))
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "FORM 1040-ES ESTIMATED TAX WORKSHEET (2024, single)", "Should have header")
	assert.Contains(t, content, "10657", "Should show line 11c")
	assert.Contains(t, content, "Estimated payments required: YES (estimated payments required)")
	assert.Contains(t, content, "$1250.00", "Should show installment amount")
	assert.Contains(t, content, "income_tax_withheld: negative value -20 clamped to 0")
	assert.NotContains(t, content, "KEY ASSUMPTIONS", "Assumptions are verbose only")

	_, err = formatter.Format(nil)
	assert.Error(t, err)
}

func TestConsoleFormatter_Verbose(t *testing.T) {
	formatter := ConsoleFormatter{Verbose: true}
	assert.Equal(t, "console-verbose", formatter.Name())

	out, err := formatter.Format(buildTestResult(t))
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "SELF-EMPLOYMENT TAX:")
	assert.Contains(t, content, "Net earnings:   46175")
	assert.Contains(t, content, "tax on line 3 using the 2024 Tax Rate Schedules")
	assert.Contains(t, content, "KEY ASSUMPTIONS")
}

func TestConsoleFormatter_MissingInputs(t *testing.T) {
	res := buildTestResult(t)
	res.MissingInputs = []string{domain.FieldPriorYearTotalTax}
	out, err := ConsoleFormatter{}.Format(res)
	require.NoError(t, err)
	assert.Contains(t, string(out), "- prior_year_total_tax")
}

func TestCSVFormatter_Format(t *testing.T) {
	out, err := CSVFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "Line,Amount,Description", "Should have CSV header")
	assert.Contains(t, content, "11c,10657,", "Should have line 11c")
	assert.Contains(t, content, "15,1250,")
	assert.Contains(t, content, "RequirePayments,true,estimated payments required")
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "10657", decoded["line11c"])
	assert.Equal(t, "dollars", decoded["rounding"])
	assert.Contains(t, decoded, "explainers")
	assert.Contains(t, decoded, "se_tax_detail")
}

func TestYAMLFormatter_Format(t *testing.T) {
	out, err := YAMLFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "10657", fmt.Sprint(decoded["line11c"]))
	decision, ok := decoded["decision"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, decision["require_payments"])
}

func TestHTMLFormatter_Format(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestResult(t))
	require.NoError(t, err)
	content := string(out)

	assert.Contains(t, content, "<!DOCTYPE html>", "Should have HTML structure")
	assert.Contains(t, content, "<title>2024 Form 1040-ES Estimated Tax Worksheet</title>")
	assert.Contains(t, content, "$1250.00 per installment")
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	assert.ElementsMatch(t, []string{"console", "console-verbose", "csv", "json", "yaml", "html"}, names)
	assert.Equal(t, []string{"text", "verbose", "yml"}, AvailableFormatAliases())
}

func TestGetFormatterByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"console", "console"},
		{"JSON", "json"},
		{"yml", "yaml"},
		{"verbose", "console-verbose"},
		{" csv ", "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := GetFormatterByName(tt.name)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.Name())
		})
	}

	assert.Nil(t, GetFormatterByName("non-existent"), "Should return nil formatter for non-existent name")
}
