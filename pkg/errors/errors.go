package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Sniffer errors
	ErrNotADirectory        ErrorCode = "NOT_A_DIRECTORY"
	ErrInvalidInterpolation ErrorCode = "INVALID_INTERPOLATION"
	ErrManifestParse        ErrorCode = "MANIFEST_PARSE"

	// Resolution errors
	ErrResolverUnavailable ErrorCode = "RESOLVER_UNAVAILABLE"
	ErrResolutionFailed    ErrorCode = "RESOLUTION_FAILED"
	ErrResolverProtocol    ErrorCode = "RESOLVER_PROTOCOL"

	// Installation errors
	ErrMirrorCorrupt  ErrorCode = "MIRROR_CORRUPT"
	ErrStubGeneration ErrorCode = "STUB_GENERATION"
	ErrInstallEmpty   ErrorCode = "INSTALL_EMPTY"

	// Activation errors
	ErrEnvironmentRestore ErrorCode = "ENV_RESTORE"
	ErrSessionCorrupt     ErrorCode = "SESSION_CORRUPT"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileNotFound  ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"
	ErrHardLink      ErrorCode = "HARD_LINK"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
)

// DevenvError represents a structured error with code and details
type DevenvError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DevenvError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DevenvError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DevenvError) Is(target error) bool {
	var targetErr *DevenvError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DevenvError with the given code and message
func New(code ErrorCode, message string) *DevenvError {
	return &DevenvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DevenvError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DevenvError {
	return &DevenvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DevenvError
func Wrap(err error, code ErrorCode, message string) *DevenvError {
	if err == nil {
		return nil
	}
	return &DevenvError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DevenvError {
	if err == nil {
		return nil
	}
	return &DevenvError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DevenvError) WithDetail(key string, value interface{}) *DevenvError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var devErr *DevenvError
	if errors.As(err, &devErr) {
		return devErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DevenvError
func GetErrorCode(err error) ErrorCode {
	var devErr *DevenvError
	if errors.As(err, &devErr) {
		return devErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DevenvError
func GetErrorDetails(err error) map[string]interface{} {
	var devErr *DevenvError
	if errors.As(err, &devErr) {
		return devErr.Details
	}
	return nil
}
