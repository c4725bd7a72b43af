// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic and can be mapped to HTTP/CLI output by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrValidation indicates a required field was empty or missing.
	ErrValidation = errors.New("validation failed")

	// ErrNetwork indicates a call to the remote quote source failed.
	ErrNetwork = errors.New("network failure")

	// ErrFormat indicates an import document could not be accepted.
	ErrFormat = errors.New("invalid document format")

	// ErrNoneAvailable indicates a filtered selection matched no quotes.
	ErrNoneAvailable = errors.New("no quotes available")

	// ErrStorage indicates the persistent store rejected a write or read.
	ErrStorage = errors.New("storage failure")
)

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NetworkError describes a failed exchange with a remote service.
type NetworkError struct {
	Service string
	Reason  string
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("service %q unreachable: %s", e.Service, e.Reason)
	}

	return fmt.Sprintf("service %q unreachable", e.Service)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *NetworkError) Unwrap() error {
	return ErrNetwork
}

// NewNetworkError creates a network error with context.
func NewNetworkError(service, reason string) error {
	return &NetworkError{Service: service, Reason: reason}
}

// FormatError names the reason an import document was rejected.
type FormatError struct {
	Reason string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return "invalid document format: " + e.Reason
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// NewFormatError creates a format error with the given reason.
func NewFormatError(reason string) error {
	return &FormatError{Reason: reason}
}

// StorageError wraps a persistence failure with the key being accessed.
type StorageError struct {
	Key   string
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage failure for key %q: %v", e.Key, e.Cause)
	}

	return fmt.Sprintf("storage failure for key %q", e.Key)
}

// Unwrap returns both the sentinel and the cause.
func (e *StorageError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrStorage}
	}

	return []error{ErrStorage, e.Cause}
}

// NewStorageError creates a storage error for key.
func NewStorageError(key string, cause error) error {
	return &StorageError{Key: key, Cause: cause}
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsFormat checks if an error is a format error.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsNoneAvailable checks if an error reports an empty filtered selection.
func IsNoneAvailable(err error) bool {
	return errors.Is(err, ErrNoneAvailable)
}

// IsStorage checks if an error is a storage error.
func IsStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
