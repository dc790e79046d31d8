// Package errors provides the error-kind taxonomy for the route
// optimization engine. It implements a standardized error handling
// approach across the geo kernel, constraint kernel, and solver
// strategies.
package errors

import "fmt"

// ErrorKind is a closed enumeration of the engine's error taxonomy.
// Kinds, not HTTP status codes or exception class names, are the unit
// callers branch on.
type ErrorKind string

const (
	// InvalidInput covers empty orders/technicians, non-positive speed,
	// negative distance/hour arguments, and non-positive integers where
	// a positive value is required.
	InvalidInput ErrorKind = "INVALID_INPUT"

	// MatrixSizeMismatch covers a distance matrix whose dimensions do
	// not equal T+W, or a ragged row.
	MatrixSizeMismatch ErrorKind = "MATRIX_SIZE_MISMATCH"

	// MissingRequiredAttribute covers a record lacking an attribute
	// enumerated in the data model.
	MissingRequiredAttribute ErrorKind = "MISSING_REQUIRED_ATTRIBUTE"

	// InvalidWindow covers a time window whose start is after its end.
	InvalidWindow ErrorKind = "INVALID_WINDOW"

	// InvalidLocation covers a location used to build a matrix that
	// lacks a coordinate.
	InvalidLocation ErrorKind = "INVALID_LOCATION"

	// NoSolution covers a CP-VRP search that returned nothing.
	NoSolution ErrorKind = "NO_SOLUTION"

	// DependencyMissing covers CP-VRP invoked without its underlying
	// solving engine available.
	DependencyMissing ErrorKind = "DEPENDENCY_MISSING"
)

// AppError represents a standardized engine error: a kind, a
// human-readable message, the offending entity id (if any), and an
// optional wrapped internal error.
type AppError struct {
	Kind        ErrorKind              `json:"kind"`
	Message     string                 `json:"message"`
	EntityID    string                 `json:"entity_id,omitempty"`
	InternalErr error                  `json:"-"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	msg := e.Message
	if e.EntityID != "" {
		msg = fmt.Sprintf("%s (entity %q)", msg, e.EntityID)
	}
	if e.InternalErr != nil {
		return fmt.Sprintf("%s: %v", msg, e.InternalErr)
	}
	return msg
}

// Unwrap returns the internal error for error wrapping.
func (e *AppError) Unwrap() error {
	return e.InternalErr
}

// WithDetails adds additional details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithInternal sets the internal error.
func (e *AppError) WithInternal(err error) *AppError {
	e.InternalErr = err
	return e
}

// WithEntityID sets the offending entity id.
func (e *AppError) WithEntityID(id string) *AppError {
	e.EntityID = id
	return e
}

// Kind-specific constructors.

// NewInvalidInputError creates an InvalidInput error.
func NewInvalidInputError(message string) *AppError {
	return &AppError{Kind: InvalidInput, Message: message}
}

// NewMatrixSizeMismatchError creates a MatrixSizeMismatch error.
func NewMatrixSizeMismatchError(message string) *AppError {
	return &AppError{Kind: MatrixSizeMismatch, Message: message}
}

// NewMissingRequiredAttributeError creates a MissingRequiredAttribute
// error naming the offending record and attribute.
func NewMissingRequiredAttributeError(entityID, attribute string) *AppError {
	return &AppError{
		Kind:     MissingRequiredAttribute,
		Message:  fmt.Sprintf("missing required attribute %q", attribute),
		EntityID: entityID,
	}
}

// NewInvalidWindowError creates an InvalidWindow error.
func NewInvalidWindowError(message string) *AppError {
	return &AppError{Kind: InvalidWindow, Message: message}
}

// NewInvalidLocationError creates an InvalidLocation error.
func NewInvalidLocationError(entityID, message string) *AppError {
	return &AppError{Kind: InvalidLocation, Message: message, EntityID: entityID}
}

// NewNoSolutionError creates a NoSolution error.
func NewNoSolutionError(message string) *AppError {
	return &AppError{Kind: NoSolution, Message: message}
}

// NewDependencyMissingError creates a DependencyMissing error.
func NewDependencyMissingError(message string) *AppError {
	return &AppError{Kind: DependencyMissing, Message: message}
}

// Is reports whether err is an *AppError of the given kind.
func Is(err error, kind ErrorKind) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Kind == kind
}

// KindOf extracts the ErrorKind from err, or "" if err is not an
// *AppError.
func KindOf(err error) ErrorKind {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Kind
	}
	return ""
}
