package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound          = errors.New("resource not found")
	ErrAttributeNotFound = fmt.Errorf("%w: attribute", ErrNotFound)
	ErrDatasetNotLoaded  = fmt.Errorf("%w: dataset", ErrNotFound)

	// Regression errors. Each aborts only the regression request.
	ErrNoNumericPredictors = errors.New("no numeric predictors")
	ErrNoValidRows         = errors.New("no valid rows")
	ErrInsufficientRows    = errors.New("fewer valid rows than predictors")
	ErrResponseNotNumeric  = errors.New("response attribute is not numeric")

	// Association errors
	ErrNoVisibleAttributes = errors.New("no visible attributes")
)

// NewNotFoundError reports a missing resource by name.
func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, name)
}

// IsNotFoundError reports whether err is any not-found error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRegressionError reports whether err is a regression abort condition.
func IsRegressionError(err error) bool {
	return errors.Is(err, ErrNoNumericPredictors) ||
		errors.Is(err, ErrNoValidRows) ||
		errors.Is(err, ErrInsufficientRows) ||
		errors.Is(err, ErrResponseNotNumeric)
}
