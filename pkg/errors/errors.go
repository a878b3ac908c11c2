// Package errors defines the coded errors returned across featlink. Codes are
// stable strings so tests and the JSON renderer can match on them instead of
// on message text.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a failure class
type ErrorCode string

const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// configuration layering
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// declarations and evaluation
	ErrExprParse         ErrorCode = "EXPR_PARSE"
	ErrDeclarationsParse ErrorCode = "DECLARATIONS_PARSE"
	ErrFeatureDuplicate  ErrorCode = "FEATURE_DUPLICATE"
	ErrFeatureReference  ErrorCode = "FEATURE_REFERENCE"
	ErrFeatureRequired   ErrorCode = "FEATURE_REQUIRED"

	// persisted cache
	ErrCacheMissing ErrorCode = "CACHE_MISSING"
	ErrCacheParse   ErrorCode = "CACHE_PARSE"
	ErrCacheWrite   ErrorCode = "CACHE_WRITE"

	// archive search; the offending root is skipped
	ErrSearchRoot ErrorCode = "SEARCH_ROOT"
)

// recoverable lists the codes a caller absorbs and logs instead of aborting
var recoverable = map[ErrorCode]bool{
	ErrSearchRoot: true,
}

// configuration lists the codes that report a broken declaration set or
// configuration rather than an unmet requirement or an I/O failure
var configuration = map[ErrorCode]bool{
	ErrConfigParse:       true,
	ErrConfigValid:       true,
	ErrExprParse:         true,
	ErrDeclarationsParse: true,
	ErrFeatureDuplicate:  true,
	ErrFeatureReference:  true,
}

// FeatlinkError carries a code, a message and optional context such as the
// feature name or cache path involved
type FeatlinkError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

func build(code ErrorCode, msg string, cause error) *FeatlinkError {
	return &FeatlinkError{
		Code:    code,
		Message: msg,
		Details: map[string]interface{}{},
		Wrapped: cause,
	}
}

func (e *FeatlinkError) Error() string {
	msg := "[" + string(e.Code) + "] " + e.Message
	if e.Wrapped == nil {
		return msg
	}
	return msg + ": " + e.Wrapped.Error()
}

func (e *FeatlinkError) Unwrap() error {
	return e.Wrapped
}

// Is matches any FeatlinkError with the same code
func (e *FeatlinkError) Is(target error) bool {
	t, ok := target.(*FeatlinkError)
	return ok && t.Code == e.Code
}

// WithDetail records key on the error and returns it for chaining
func (e *FeatlinkError) WithDetail(key string, value interface{}) *FeatlinkError {
	if e.Details == nil {
		e.Details = map[string]interface{}{}
	}
	e.Details[key] = value
	return e
}

func New(code ErrorCode, message string) *FeatlinkError {
	return build(code, message, nil)
}

func Newf(code ErrorCode, format string, args ...interface{}) *FeatlinkError {
	return build(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *FeatlinkError {
	if err == nil {
		return nil
	}
	return build(code, message, err)
}

// Wrapf is Wrap with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FeatlinkError {
	if err == nil {
		return nil
	}
	return build(code, fmt.Sprintf(format, args...), err)
}

// outermost returns the first FeatlinkError in err's chain
func outermost(err error) *FeatlinkError {
	var fe *FeatlinkError
	if errors.As(err, &fe) {
		return fe
	}
	return nil
}

// IsErrorCode reports whether the outermost FeatlinkError in err has code
func IsErrorCode(err error, code ErrorCode) bool {
	fe := outermost(err)
	return fe != nil && fe.Code == code
}

// GetErrorCode returns the outermost code in err, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	if fe := outermost(err); fe != nil {
		return fe.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost FeatlinkError in err
func GetErrorDetails(err error) map[string]interface{} {
	if fe := outermost(err); fe != nil {
		return fe.Details
	}
	return nil
}

// IsFatal reports whether err aborts a configuration or rewrite pass
func IsFatal(err error) bool {
	return err != nil && !recoverable[GetErrorCode(err)]
}

// IsConfigurationError reports whether err is a configuration error: invalid
// settings, a malformed dependency expression, or a duplicate, unknown,
// forward or cyclic feature reference
func IsConfigurationError(err error) bool {
	return err != nil && configuration[GetErrorCode(err)]
}
