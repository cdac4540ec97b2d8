package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Labeling
	ErrNoMarkerColumn = errors.New("no matching column")

	// Feature preparation
	ErrNoNumericFeatures = errors.New("no numeric features")
	ErrInsufficientData  = errors.New("insufficient data for analysis")

	// Resampling
	ErrInsufficientMinority = errors.New("minority class too small to synthesize neighbours")
	ErrSingleClass          = errors.New("label has a single class")

	// Models
	ErrNotFitted       = errors.New("model not fitted")
	ErrShapeMismatch   = errors.New("feature matrix and label vector length mismatch")
	ErrInconsistentRow = errors.New("inconsistent number of features in row")
)

// NewMarkerError reports that no column matched the marker term
func NewMarkerError(marker string) error {
	return fmt.Errorf("%w for marker %q", ErrNoMarkerColumn, marker)
}

// NewMissingColumnError reports that an explicitly mapped column is absent
func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: column %q not present in dataset", ErrNoMarkerColumn, column)
}

// NewValidationError reports an invalid field value
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsMarkerError checks whether err originates from label column resolution
func IsMarkerError(err error) bool {
	return errors.Is(err, ErrNoMarkerColumn)
}

// IsInsufficientData checks for any of the too-little-data conditions
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInsufficientMinority) ||
		errors.Is(err, ErrSingleClass) ||
		errors.Is(err, ErrNoNumericFeatures)
}
