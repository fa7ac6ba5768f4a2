// Package errors provides structured error handling for the application
// Every failure the diet planner surfaces to a caller is an *AppError carrying a code
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes of the diet planner
const (
	// Caller errors
	CodeInvalidArgument   ErrorCode = "INVALID_ARGUMENT"
	CodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	CodeIncompatibleUnits ErrorCode = "INCOMPATIBLE_UNITS"
	CodeConflict          ErrorCode = "CONFLICT"

	// Business logic errors
	CodeRecipeNotFound ErrorCode = "RECIPE_NOT_FOUND"
	CodeDuplicateMeal  ErrorCode = "DUPLICATE_MEAL"

	// Infrastructure errors
	CodePersistence ErrorCode = "PERSISTENCE_ERROR"
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error with structured information
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Recoverable reports whether the caller can treat the error as "nothing changed"
func (e *AppError) Recoverable() bool {
	switch e.Code {
	case CodeDuplicateMeal, CodeConflict, CodeRecipeNotFound:
		return true
	default:
		return false
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Details:    details,
		StackTrace: getStackTrace(),
	}
}

// NewInvalidArgumentError creates an error for a bad enum value or argument
func NewInvalidArgumentError(argument string, value interface{}) *AppError {
	return NewAppError(
		CodeInvalidArgument,
		"Invalid argument",
		fmt.Sprintf("invalid %s: %v", argument, value),
	).WithMetadata("argument", argument).WithMetadata("value", value)
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewIncompatibleUnitsError creates an error for a conversion without a dimensional path
func NewIncompatibleUnitsError(from, to string) *AppError {
	return NewAppError(
		CodeIncompatibleUnits,
		"Incompatible units",
		fmt.Sprintf("cannot convert %s to %s", from, to),
	).WithMetadata("from", from).WithMetadata("to", to)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(CodeConflict, message, "")
}

// NewRecipeNotFoundError creates a recipe not found error
func NewRecipeNotFoundError(recipeKey string) *AppError {
	return NewAppError(
		CodeRecipeNotFound,
		"Recipe not found",
		fmt.Sprintf("recipe %q does not exist", recipeKey),
	).WithMetadata("recipe_key", recipeKey)
}

// NewDuplicateMealError creates an error for scheduling a meal twice
func NewDuplicateMealError(recipeKey, date, category string) *AppError {
	return NewAppError(
		CodeDuplicateMeal,
		"Meal already scheduled",
		fmt.Sprintf("%s is already scheduled as %s on %s", recipeKey, category, date),
	).WithMetadata("recipe_key", recipeKey).
		WithMetadata("date", date).
		WithMetadata("category", category)
}

// NewPersistenceError creates a storage I/O error
func NewPersistenceError(operation string, cause error) *AppError {
	return NewAppError(
		CodePersistence,
		"Persistence operation failed",
		fmt.Sprintf("failed to %s", operation),
	).WithCause(cause)
}

// Is checks if an error, or any error it wraps, carries a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// getStackTrace captures the current stack trace
func getStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var builder strings.Builder
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "pkg/errors") {
			builder.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return builder.String()
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Tag     string      `json:"tag"`
	Message string      `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	if len(v) == 1 {
		return v[0].Message
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, "; ")
}

// NewValidationErrors creates validation errors from validator errors
func NewValidationErrors(errors []ValidationError) *AppError {
	validationErrs := ValidationErrors(errors)

	return NewAppError(
		CodeValidationFailed,
		"Validation failed",
		validationErrs.Error(),
	).WithMetadata("validation_errors", validationErrs)
}
