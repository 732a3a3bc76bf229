// Package validation holds the shared struct validator and turns its field
// errors into readable violations.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New()

	// Report fields by their wire names (json, then yaml) rather than Go names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"json", "yaml"} {
			name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	// NaN and ±Inf pass numeric range tags, so they need their own check
	_ = Validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Float32, reflect.Float64:
			f := fl.Field().Float()
			return !math.IsNaN(f) && !math.IsInf(f, 0)
		}
		return true
	})
}

// Violation describes one field that failed a constraint.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      any    `json:"value,omitempty"`
}

func (v Violation) String() string {
	if v.Value == nil {
		return v.Field + " " + v.Constraint
	}
	if reflect.ValueOf(v.Value).Kind() == reflect.String {
		return fmt.Sprintf("%s %s (got %q)", v.Field, v.Constraint, v.Value)
	}
	return fmt.Sprintf("%s %s (got %v)", v.Field, v.Constraint, v.Value)
}

// Struct validates s and returns its violations, or nil when s is valid.
// Errors other than field failures (e.g. a nil or non-struct argument) are
// returned as the second value.
func Struct(s any) ([]Violation, error) {
	err := Validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	violations := make([]Violation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, Violation{
			Field:      fieldPath(fe.Namespace()),
			Constraint: Describe(fe),
			Value:      fe.Value(),
		})
	}
	return violations, nil
}

// fieldPath drops the root struct name and untagged embedded structs from a
// validator namespace, so "UmbrellaParams.ContractInput.rate" becomes "rate"
// and "Config.income_tax.bands[1].rate" becomes "income_tax.bands[1].rate".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" && unicode.IsUpper(rune(p[0])) {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return namespace
	}
	return strings.Join(kept, ".")
}

// Describe renders the failed constraint of fe in plain words.
func Describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lt":
		return "must be less than " + fe.Param()
	case "oneof":
		return "must be one of " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "finite":
		return "must be a finite number"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	}
	return "failed " + fe.Tag()
}

// Join renders violations as a single "; " separated message.
func Join(violations []Violation) string {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}
