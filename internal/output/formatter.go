package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/estax/internal/domain"
)

// Formatter renders a worksheet result.
type Formatter interface {
	Name() string
	Format(result *domain.WorksheetResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(result *domain.WorksheetResult) ([]byte, error)
}

func (ff FormatterFunc) Name() string { return ff.ID }

func (ff FormatterFunc) Format(result *domain.WorksheetResult) ([]byte, error) {
	return ff.F(result)
}

var formatters = []Formatter{
	ConsoleFormatter{},
	ConsoleFormatter{Verbose: true},
	CSVFormatter{},
	JSONFormatter{},
	YAMLFormatter{},
	HTMLFormatter{},
}

var formatAliases = map[string]string{
	"text":    "console",
	"verbose": "console-verbose",
	"yml":     "yaml",
}

// GetFormatterByName returns the formatter registered under name or an alias,
// or nil when there is none.
func GetFormatterByName(name string) Formatter {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := formatAliases[n]; ok {
		n = alias
	}
	for _, f := range formatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// AvailableFormatterNames lists the registered formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for _, f := range formatters {
		names = append(names, f.Name())
	}
	return names
}

// AvailableFormatAliases lists the accepted alternative names, sorted.
func AvailableFormatAliases() []string {
	aliases := make([]string, 0, len(formatAliases))
	for a := range formatAliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

// WriteFormatted formats result and writes it to a timestamped file in the
// current directory, returning the file name.
func WriteFormatted(f Formatter, result *domain.WorksheetResult, ext string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("estax_worksheet_%d_%s.%s", result.TaxYear, time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
