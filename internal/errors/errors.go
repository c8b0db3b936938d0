// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrInvalidInput marks bad caller data: prices, strikes, premiums, quantities, leg counts.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNumericalInstability marks a root search that exhausted its iteration budget.
	ErrNumericalInstability = errors.New("numerical instability")
	// ErrCalculationFailed marks a per-leg computation that produced no usable result.
	ErrCalculationFailed = errors.New("calculation failed")

	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrStrategyNotFound = errors.New("strategy not found")
	ErrDatabaseError    = errors.New("database error")
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match every validation failure.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ConvergenceError is returned when bisection runs out of iterations.
type ConvergenceError struct {
	Lo         float64
	Hi         float64
	Iterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("bisection did not converge in [%.4f, %.4f] after %d iterations", e.Lo, e.Hi, e.Iterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNumericalInstability
}

// NewConvergenceError creates a new ConvergenceError.
func NewConvergenceError(lo, hi float64, iterations int) *ConvergenceError {
	return &ConvergenceError{
		Lo:         lo,
		Hi:         hi,
		Iterations: iterations,
	}
}

// CalculationError represents a failed computation for a specific leg.
type CalculationError struct {
	LegID     string
	Operation string
	Err       error
}

func (e *CalculationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("calculation error [%s] %s: %v", e.LegID, e.Operation, e.Err)
	}
	return fmt.Sprintf("calculation error [%s] %s", e.LegID, e.Operation)
}

func (e *CalculationError) Unwrap() error {
	return e.Err
}

// Is reports ErrCalculationFailed as a match so callers can test the kind without unwrapping.
func (e *CalculationError) Is(target error) bool {
	return target == ErrCalculationFailed
}

// NewCalculationError creates a new CalculationError.
func NewCalculationError(legID, operation string, err error) *CalculationError {
	return &CalculationError{
		LegID:     legID,
		Operation: operation,
		Err:       err,
	}
}

// StoreError represents an error from the strategy store.
type StoreError struct {
	Operation string
	Name      string
	Err       error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [%s] %s: %v", e.Operation, e.Name, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(operation, name string, err error) *StoreError {
	return &StoreError{
		Operation: operation,
		Name:      name,
		Err:       err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
