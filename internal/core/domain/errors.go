package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error
// code. Codes are grouped by subsystem: LH-CONF (configuration), LH-SNAP
// (snapshot encode/decode), LH-STOR (persistence store).
type DomainError struct {
	Code    string // Error code (e.g. "LH-SNAP-2000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support; two DomainErrors match on Code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks whether err is a DomainError with the given code.
// An empty code matches any DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// Predefined domain errors.
var (
	// ErrConfigInvalid indicates missing or invalid configuration.
	// Fatal at miner construction.
	ErrConfigInvalid = NewDomainError("LH-CONF-1000", "invalid configuration")

	// ErrSnapshotCorrupt indicates a persisted snapshot that failed
	// decoding, decompression or decryption. Fatal at startup: restoring a
	// partial state would let the engine assign conflicting cluster
	// identities, so no fallback to an empty engine is attempted.
	ErrSnapshotCorrupt = NewDomainError("LH-SNAP-2000", "corrupt snapshot")

	// ErrStateEncode indicates the engine state could not be serialized.
	ErrStateEncode = NewDomainError("LH-SNAP-2001", "state serialization failed")

	// ErrStoreIO indicates a persistence store load/save failure.
	// Propagated to the caller uncaught; retry policy belongs to the store
	// or its caller.
	ErrStoreIO = NewDomainError("LH-STOR-3000", "persistence store failure")
)
