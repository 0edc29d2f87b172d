package utils

import (
	"fmt"
	"math"
)

// ValidationError reports a violated precondition: a malformed resolution
// parameter or a buffer whose length does not match the grid it is used on.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error for '%s': %s (got %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// NonFiniteError reports a NaN or Inf produced by a transform stage. It is
// a computation failure for the outer solver to act on, not a log line.
type NonFiniteError struct {
	Stage    string
	Quantity string
	Surface  int // global radial index
	Index    int // index within the surface
	Value    float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("%s: non-finite %s = %v at surface %d, index %d",
		e.Stage, e.Quantity, e.Value, e.Surface, e.Index)
}

// CheckFinite scans data laid out as consecutive blocks of stride values,
// the first block belonging to global surface firstSurface.
func CheckFinite(stage, quantity string, data []float64, stride, firstSurface int) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteError{
				Stage:    stage,
				Quantity: quantity,
				Surface:  firstSurface + i/stride,
				Index:    i % stride,
				Value:    v,
			}
		}
	}
	return nil
}

// CheckLength returns a ValidationError when len(data) != want
func CheckLength(field string, data []float64, want int) error {
	if len(data) != want {
		return NewValidationError(field,
			fmt.Sprintf("expected length %d", want), len(data))
	}
	return nil
}
