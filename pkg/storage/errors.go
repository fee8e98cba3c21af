package storage

import (
	"errors"
	"fmt"
)

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrConnFailed       = errors.New("connection failed")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("file not found")
	ErrTimeout          = errors.New("operation timeout")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUploadRejected   = errors.New("upload rejected")

	// ErrInvalidEndpoint is a configuration error, so it also matches ErrInvalidConfig
	ErrInvalidEndpoint = fmt.Errorf("%w: malformed endpoint", ErrInvalidConfig)
)

// UploadError is returned when the remote store answers a well-formed
// request with a non-2xx status. Status and body are kept verbatim for
// diagnosis; the cause (signature, clock skew, permissions, server fault)
// is not inferred.
type UploadError struct {
	StatusCode int
	Body       string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUploadRejected) match any UploadError
func (e *UploadError) Is(target error) bool {
	return target == ErrUploadRejected
}

// IsRetryable returns true if error should trigger a retry
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConnFailed) || errors.Is(err, ErrTimeout)
}

// IsCritical returns true if error should stop all operations
func IsCritical(err error) bool {
	return errors.Is(err, ErrAuthFailed) || errors.Is(err, ErrInvalidConfig)
}

// WrapError adds context to an error
func WrapError(backend, operation string, err error) error {
	return fmt.Errorf("%s (%s): %w", operation, backend, err)
}

// MissingOptionError reports a required option that was absent or empty
func MissingOptionError(option string) error {
	return fmt.Errorf("%w: missing required option: %s", ErrInvalidConfig, option)
}
