package transform

import (
	"fmt"

	"github.com/rgehrsitz/estax/internal/domain"
)

// InputTransform defines the interface for all worksheet input transformations.
// Transforms are composable what-if edits used by break-even searches,
// the what-if command and the TUI.
type InputTransform interface {
	// Apply returns a modified copy of base. Pointer fields it changes are
	// replaced, never written through, so base stays untouched.
	Apply(base domain.WorksheetInputs) (domain.WorksheetInputs, error)

	// Name returns a short identifier for this transform (e.g., "set_withholding").
	Name() string

	// Description returns a human-readable description of what this transform does.
	Description() string

	// Validate checks if the transform parameters are valid without applying it.
	Validate(base domain.WorksheetInputs) error
}

// ApplyTransforms applies a sequence of transforms to base.
// Transforms are applied in order, with each transform receiving the output of the previous one.
func ApplyTransforms(base domain.WorksheetInputs, transforms []InputTransform) (domain.WorksheetInputs, error) {
	current := base

	for i, transform := range transforms {
		if transform == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}

		if err := transform.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", transform.Name(), err)
		}

		next, err := transform.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", transform.Name(), err)
		}

		current = next
	}

	return current, nil
}

// Describe lists the descriptions of transforms in order.
func Describe(transforms []InputTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		out = append(out, t.Description())
	}
	return out
}

// TransformError represents an error that occurred during transformation.
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError.
func NewTransformError(transformName, operation, reason string, err error) error {
	return &TransformError{
		TransformName: transformName,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}
