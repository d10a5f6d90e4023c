package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and ±Inf. field names the offending value in
// the returned error so event rejections can be traced back to the input.
func ValidateFinite(code Code, field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be finite, got %v", field, v)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly greater
// than zero.
func ValidatePositive(code Code, field string, v float64) error {
	if err := ValidateFinite(code, field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(code, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateOutputPath validates a user-supplied output path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidInput, "output path %q names a directory", path)
	}

	return nil
}
