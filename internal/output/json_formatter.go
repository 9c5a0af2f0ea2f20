package output

import (
	"encoding/json"

	"github.com/rgehrsitz/estax/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter renders the full result as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *domain.WorksheetResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}

// YAMLFormatter renders the full result as YAML.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string { return "yaml" }

func (y YAMLFormatter) Format(result *domain.WorksheetResult) ([]byte, error) {
	return yaml.Marshal(result)
}
