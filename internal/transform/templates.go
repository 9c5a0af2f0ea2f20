package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Category    string
	Description string
	Transforms  []InputTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var templateCategories = []string{"Income Changes", "Withholding", "Safe Harbor"}

// CreateBuiltInTemplates creates a template registry with common what-if scenarios
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, amount := range []int64{5000, 10000} {
		registry.Register(Template{
			Name:        fmt.Sprintf("bonus_%dk", amount/1000),
			Category:    "Income Changes",
			Description: fmt.Sprintf("Receive a $%d bonus on top of projected income", amount),
			Transforms:  []InputTransform{&AdjustGrossIncome{Delta: decimal.NewFromInt(amount)}},
		})
		registry.Register(Template{
			Name:        fmt.Sprintf("side_gig_%dk", amount/1000),
			Category:    "Income Changes",
			Description: fmt.Sprintf("Add $%d of self-employment profit", amount),
			Transforms:  []InputTransform{&AdjustSEProfit{Delta: decimal.NewFromInt(amount)}},
		})
	}

	registry.Register(Template{
		Name:        "lose_side_gig",
		Category:    "Income Changes",
		Description: "Drop all self-employment profit",
		Transforms:  []InputTransform{&SetSEProfit{Amount: decimal.Zero}},
	})

	for _, monthly := range []int64{250, 500} {
		registry.Register(Template{
			Name:        fmt.Sprintf("w4_extra_%d", monthly),
			Category:    "Withholding",
			Description: fmt.Sprintf("Withhold an extra $%d per month through a new W-4", monthly),
			Transforms:  []InputTransform{&AddWithholding{Amount: decimal.NewFromInt(monthly * 12)}},
		})
	}

	registry.Register(Template{
		Name:        "high_income",
		Category:    "Safe Harbor",
		Description: "Prior-year AGI above the threshold; use the 110% safe harbor",
		Transforms:  []InputTransform{&SetFlag{Field: FlagHighIncome, Value: true}},
	})

	registry.Register(Template{
		Name:        "farmer",
		Category:    "Safe Harbor",
		Description: "Qualify as a farmer or fisher; use 66 2/3% of current-year tax",
		Transforms:  []InputTransform{&SetFlag{Field: FlagFarmerOrFisher, Value: true}},
	})

	return registry
}

// ParseTemplateList splits a comma-separated list of template names
func ParseTemplateList(list string) []string {
	parts := strings.Split(list, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		categories[t.Category] = append(categories[t.Category], t)
	}

	for _, category := range templateCategories {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-16s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  estax what-if inputs.yaml --template bonus_5k,w4_extra_250\n")
	sb.WriteString("  estax what-if inputs.yaml --apply set_withholding:amount=5000\n")

	return sb.String()
}
