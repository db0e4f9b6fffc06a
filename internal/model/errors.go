package model

import (
	"errors"
	"fmt"
)

// CorruptFileError reports a local cache or collection file that could not be
// read or parsed.
type CorruptFileError struct {
	Path string
	Err  error
}

func (e CorruptFileError) Error() string {
	return fmt.Sprintf("corrupt local file %s: %v", e.Path, e.Err)
}

func (e CorruptFileError) Unwrap() error { return e.Err }

// NewCorruptFileError constructs CorruptFileError
func NewCorruptFileError(path string, err error) CorruptFileError {
	return CorruptFileError{Path: path, Err: err}
}

// IsCorruptFileError checks if an error is a CorruptFileError (including wrapped errors)
func IsCorruptFileError(err error) bool {
	var ce CorruptFileError
	return errors.As(err, &ce)
}

// RemoteFetchError reports a failed call to the upstream API. StatusCode is
// zero for network-level failures.
type RemoteFetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e RemoteFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: upstream status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e RemoteFetchError) Unwrap() error { return e.Err }

// NewRemoteFetchError constructs RemoteFetchError
func NewRemoteFetchError(endpoint string, status int, err error) RemoteFetchError {
	return RemoteFetchError{Endpoint: endpoint, StatusCode: status, Err: err}
}

// IsRemoteFetchError checks if error is RemoteFetchError
func IsRemoteFetchError(err error) bool {
	var re RemoteFetchError
	return errors.As(err, &re)
}

// MissingUploadError reports an upload request without its file part.
type MissingUploadError struct {
	Field string
}

func (e MissingUploadError) Error() string {
	return fmt.Sprintf("missing upload file %q", e.Field)
}

// IsMissingUploadError checks if error is MissingUploadError
func IsMissingUploadError(err error) bool {
	var me MissingUploadError
	return errors.As(err, &me)
}

// ValidationError represents a rejected request field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
