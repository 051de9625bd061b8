// Package validation wraps go-playground/validator with the project's custom
// tags and a fluent checker for configuration values.
package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/LgxJGOOD/PDB-GO-DualPredictor/pkg/ontology"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxTerms bounds the size of a single annotation set.
	MaxTerms = 100000
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// goterm accepts identifiers of the form GO:NNNNNNN.
	if err := validate.RegisterValidation("goterm", func(fl validator.FieldLevel) bool {
		return ontology.ValidTermID(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	// finite rejects NaN and infinities, which compare false against any bound.
	if err := validate.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}); err != nil {
		panic(err)
	}
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	if s == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(s))
}

// Var validates a single value against tag, reporting it under name.
func Var(name string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return fmt.Errorf("%s: %w", name, formatValidationError(err))
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		if field == "" {
			field = "value"
		}
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "goterm":
			return fmt.Errorf("%s: %q is not a GO term identifier", field, e.Value())
		case "finite":
			return fmt.Errorf("%s: must be a finite number", field)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
