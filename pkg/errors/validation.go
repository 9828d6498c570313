package errors

import (
	"math"
	"unicode"
)

// ValidateLevel checks that level lies in [1, max]. A max of zero or less
// disables the upper bound.
func ValidateLevel(level, max int) error {
	if level < 1 {
		return New(ErrCodeInvalidLevel, "level %d must be at least 1", level)
	}
	if max > 0 && level > max {
		return New(ErrCodeInvalidLevel, "level %d exceeds maximum %d", level, max)
	}
	return nil
}

// ValidateCurveName validates a user-supplied curve name.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateCurveName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "curve name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "curve name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "curve name contains invalid control characters")
		}
	}
	return nil
}

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %v", field, v)
	}
	return nil
}
