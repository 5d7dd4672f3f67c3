package loader

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by Start on a loader that already started.
var ErrAlreadyStarted = errors.New("loader already started")

// ConfigErrorCode categorizes configuration errors.
type ConfigErrorCode string

const (
	// ErrCodeMissingField indicates a required construction parameter is empty.
	ErrCodeMissingField ConfigErrorCode = "MISSING_FIELD"

	// ErrCodeInvalidURL indicates the bundle URL is not an absolute http(s) URL.
	ErrCodeInvalidURL ConfigErrorCode = "INVALID_URL"

	// ErrCodeMissingEndpoint indicates the default configuration has no dsn.
	ErrCodeMissingEndpoint ConfigErrorCode = "MISSING_ENDPOINT"

	// ErrCodeDuplicateHook indicates both hooks name the same slot.
	ErrCodeDuplicateHook ConfigErrorCode = "DUPLICATE_HOOK"
)

// ConfigError reports an invalid construction parameter.
type ConfigError struct {
	Code    ConfigErrorCode
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
}

// IsConfigError reports whether err is a ConfigError with the given code.
func IsConfigError(err error, code ConfigErrorCode) bool {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
