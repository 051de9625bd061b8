package validation

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_Required(t *testing.T) {
	if err := NewConfigValidator("TestConfig").Required("Path", "").Validate(); err == nil {
		t.Error("Expected error for empty required field")
	}
	if err := NewConfigValidator("TestConfig").Required("Path", "go-basic.obo").Validate(); err != nil {
		t.Errorf("Expected no error for non-empty required field, got %v", err)
	}
}

func TestConfigValidator_Numbers(t *testing.T) {
	tests := []struct {
		name    string
		apply   func(*ConfigValidator)
		wantErr bool
	}{
		{"non negative zero", func(cv *ConfigValidator) { cv.NonNegative("Workers", 0) }, false},
		{"non negative below", func(cv *ConfigValidator) { cv.NonNegative("Workers", -1) }, true},
		{"range in", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 0.7, 0, 1) }, false},
		{"range edge", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 1.0, 0, 1) }, false},
		{"range out", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", 1.5, 0, 1) }, true},
		{"range nan", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", math.NaN(), 0, 1) }, true},
		{"range inf", func(cv *ConfigValidator) { cv.RangeFloat("Threshold", math.Inf(1), 0, 1) }, true},
		{"positive float", func(cv *ConfigValidator) { cv.PositiveFloat("Rate", 0.25) }, false},
		{"positive float zero", func(cv *ConfigValidator) { cv.PositiveFloat("Rate", 0) }, true},
		{"positive float nan", func(cv *ConfigValidator) { cv.PositiveFloat("Rate", math.NaN()) }, true},
		{"min duration", func(cv *ConfigValidator) { cv.MinDuration("Poll", 500*time.Millisecond, time.Second) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("TestConfig")
			tt.apply(cv)
			err := cv.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	err := NewConfigValidator("TestConfig").
		OneOf("Scorer", "resnik", []string{"inverse", "exponential"}).
		Validate()
	if err == nil || !strings.Contains(err.Error(), "TestConfig.Scorer") {
		t.Errorf("Expected error naming the field, got %v", err)
	}
}

func TestConfigValidator_When(t *testing.T) {
	err := NewConfigValidator("TestConfig").
		When(false, func(cv *ConfigValidator) { cv.Required("Skipped", "") }).
		When(true, func(cv *ConfigValidator) { cv.Required("Checked", "") }).
		Validate()
	if err == nil {
		t.Fatal("Expected error from the applied branch")
	}
	if strings.Contains(err.Error(), "Skipped") {
		t.Errorf("False branch should not run, got %v", err)
	}
	if !strings.Contains(err.Error(), "TestConfig.Checked") {
		t.Errorf("Expected Checked error, got %v", err)
	}
}

func TestConfigValidator_Struct(t *testing.T) {
	err := NewConfigValidator("TestConfig").Struct(&settings{Scorer: "resnik"}).Validate()
	if err == nil || !strings.Contains(err.Error(), "settings.Scorer") {
		t.Errorf("Expected struct tag error, got %v", err)
	}
}

func TestConfigValidator_Validate(t *testing.T) {
	if err := NewConfigValidator("Empty").Validate(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	err := NewConfigValidator("TestConfig").Required("A", "").Required("B", "").Validate()
	if err == nil || !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Expected combined error, got %v", err)
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "inverse"); got != "inverse" {
		t.Errorf("DefaultOr = %q", got)
	}
	if got := DefaultOr(3, 8); got != 3 {
		t.Errorf("DefaultOr = %d", got)
	}
	if got := DefaultOrDuration(-time.Second, 20*time.Second); got != 20*time.Second {
		t.Errorf("DefaultOrDuration = %v", got)
	}
	if got := DefaultOrDuration(5*time.Second, 20*time.Second); got != 5*time.Second {
		t.Errorf("DefaultOrDuration = %v", got)
	}
}
