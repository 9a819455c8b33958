package ser

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes serialization errors.
type ErrorCode string

const (
	// ErrCodeValueOutOfRange indicates a uint64 above math.MaxInt64, which no
	// Avro type can hold.
	ErrCodeValueOutOfRange ErrorCode = "VALUE_OUT_OF_RANGE"

	// ErrCodeMapKeyNotString indicates a map key that did not serialize to
	// a String value.
	ErrCodeMapKeyNotString ErrorCode = "MAP_KEY_NOT_STRING"

	// ErrCodeUnsupportedType indicates a Go kind the reflective driver
	// cannot describe (chan, func, complex, unsafe pointer).
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeUnsupportedVariant indicates an enum variant whose payload
	// cannot be expressed under the requested tagging convention.
	ErrCodeUnsupportedVariant ErrorCode = "UNSUPPORTED_VARIANT"
)

// EncodeError is returned when a value cannot be represented as an Avro
// value. Errors from nested values propagate unchanged, so the EncodeError
// seen by the caller is the one raised by the innermost failing hook.
type EncodeError struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newEncodeError(code ErrorCode, format string, args ...any) *EncodeError {
	return &EncodeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValueOutOfRange returns true if err is a value-out-of-range error.
func IsValueOutOfRange(err error) bool {
	return hasCode(err, ErrCodeValueOutOfRange)
}

// IsMapKeyNotString returns true if err is a non-string map key error.
func IsMapKeyNotString(err error) bool {
	return hasCode(err, ErrCodeMapKeyNotString)
}

// IsUnsupported returns true if err reports an unsupported type or variant.
func IsUnsupported(err error) bool {
	return hasCode(err, ErrCodeUnsupportedType) || hasCode(err, ErrCodeUnsupportedVariant)
}

func hasCode(err error, code ErrorCode) bool {
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}
