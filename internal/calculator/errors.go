package calculator

import (
	"errors"

	"goContractorPay/internal/validation"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// Violation names one field and the constraint it broke.
type Violation = validation.Violation

// InvalidInputError rejects a calculation before any figure is produced.
type InvalidInputError struct {
	Violations []Violation
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + validation.Join(e.Violations)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Fields returns the names of the offending fields in report order.
func (e *InvalidInputError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

func invalid(field, constraint string, value any) *InvalidInputError {
	return &InvalidInputError{Violations: []Violation{{Field: field, Constraint: constraint, Value: value}}}
}

// check runs the struct tags on params and wraps any failures.
func check(params any) error {
	violations, err := validation.Struct(params)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return &InvalidInputError{Violations: violations}
	}
	return nil
}
