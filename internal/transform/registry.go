package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (InputTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	// Income
	registry.Register("set_gross", amountFactory("set_gross", func(d decimal.Decimal) InputTransform { return &SetGrossIncome{Amount: d} }))
	registry.Register("adjust_gross", createAdjustGross)
	registry.Register("set_se_profit", amountFactory("set_se_profit", func(d decimal.Decimal) InputTransform { return &SetSEProfit{Amount: d} }))
	registry.Register("adjust_se_profit", createAdjustSEProfit)

	// Payments and safe harbor
	registry.Register("set_withholding", amountFactory("set_withholding", func(d decimal.Decimal) InputTransform { return &SetWithholding{Amount: d} }))
	registry.Register("add_withholding", amountFactory("add_withholding", func(d decimal.Decimal) InputTransform { return &AddWithholding{Amount: d} }))
	registry.Register("set_prior_tax", createSetPriorTax)
	registry.Register("apply_overpayment", amountFactory("apply_overpayment", func(d decimal.Decimal) InputTransform { return &ApplyOverpayment{Amount: d} }))

	// Deductions and flags
	registry.Register("itemize", amountFactory("itemize", func(d decimal.Decimal) InputTransform { return &Itemize{Amount: d} }))
	registry.Register("standard_deduction", func(map[string]string) (InputTransform, error) { return &UseStandardDeduction{}, nil })
	registry.Register("set_flag", createSetFlag)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (InputTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms, sorted.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "set_prior_tax:amount=9000,high_income=true"
// Transforms without parameters may omit the colon.
func (r *TransformRegistry) ParseTransformSpec(spec string) (InputTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	params := make(map[string]string)
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		for _, paramPair := range strings.Split(parts[1], ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

// ParseTransformSpecs parses each spec in order.
func (r *TransformRegistry) ParseTransformSpecs(specs []string) ([]InputTransform, error) {
	out := make([]InputTransform, 0, len(specs))
	for _, spec := range specs {
		t, err := r.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Factory functions for each transform

func decimalParam(transform string, params map[string]string, key string) (decimal.Decimal, error) {
	raw, ok := params[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, "_", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func amountFactory(name string, build func(decimal.Decimal) InputTransform) TransformFactory {
	return func(params map[string]string) (InputTransform, error) {
		amount, err := decimalParam(name, params, "amount")
		if err != nil {
			return nil, err
		}
		return build(amount), nil
	}
}

func createAdjustGross(params map[string]string) (InputTransform, error) {
	delta, err := decimalParam("adjust_gross", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustGrossIncome{Delta: delta}, nil
}

func createAdjustSEProfit(params map[string]string) (InputTransform, error) {
	delta, err := decimalParam("adjust_se_profit", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustSEProfit{Delta: delta}, nil
}

func createSetPriorTax(params map[string]string) (InputTransform, error) {
	amount, err := decimalParam("set_prior_tax", params, "amount")
	if err != nil {
		return nil, err
	}
	t := &SetPriorYearTax{Amount: amount}
	if raw, ok := params["high_income"]; ok {
		high, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid high_income value: %w", err)
		}
		t.HighIncome = &high
	}
	return t, nil
}

func createSetFlag(params map[string]string) (InputTransform, error) {
	field, ok := params["flag"]
	if !ok {
		return nil, fmt.Errorf("set_flag requires 'flag' parameter")
	}
	value := true
	if raw, ok := params["value"]; ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value: %w", err)
		}
		value = v
	}
	return &SetFlag{Field: field, Value: value}, nil
}
