package validation

import (
	"errors"
	"fmt"
	"time"
)

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: required field is empty", cv.name, field))
	}
	return cv
}

// MinDuration validates that a duration is at least the minimum.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: duration %v is below minimum %v", cv.name, field, value, min))
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %d must be non-negative", cv.name, field, value))
	}
	return cv
}

// RangeFloat validates that a float field lies within [min, max]. NaN is
// always out of range.
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if !(value >= min && value <= max) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v is outside range [%v, %v]", cv.name, field, value, min, max))
	}
	return cv
}

// Struct runs the tag-based validator over s and records its first failure.
func (cv *ConfigValidator) Struct(s any) *ConfigValidator {
	if err := Struct(s); err != nil {
		cv.errors = append(cv.errors, err)
	}
	return cv
}

// PositiveFloat validates that a float field is positive (> 0).
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if !(value > 0) {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %v must be positive", cv.name, field, value))
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.errors = append(cv.errors, fmt.Errorf("%s.%s: value %q must be one of %v", cv.name, field, value, allowed))
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Validate returns a combined error if any validations failed.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	if len(cv.errors) == 1 {
		return cv.errors[0]
	}
	return fmt.Errorf("%s validation failed with %d errors: %w", cv.name, len(cv.errors), errors.Join(cv.errors...))
}

// DefaultOr returns the value if it's non-zero, otherwise returns the default.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}

// DefaultOrDuration returns the value if it's positive, otherwise returns the default.
func DefaultOrDuration(value, defaultValue time.Duration) time.Duration {
	if value <= 0 {
		return defaultValue
	}
	return value
}
