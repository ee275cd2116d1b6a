package types

import "fmt"

// ErrorCode represents a unified error code across the assistant.
type ErrorCode string

// Pipeline error codes
const (
	ErrEmptyQuery           ErrorCode = "EMPTY_QUERY"
	ErrRetrievalUnavailable ErrorCode = "RETRIEVAL_UNAVAILABLE"
	ErrEngineFailure        ErrorCode = "ENGINE_FAILURE"
	ErrGenerationFailure    ErrorCode = "GENERATION_FAILURE"
	ErrUnsupportedFormat    ErrorCode = "UNSUPPORTED_FORMAT"
	ErrPersistenceFailure   ErrorCode = "PERSISTENCE_FAILURE"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Engine names the web search engine for ENGINE_FAILURE errors.
	Engine string `json:"engine,omitempty"`
	Cause  error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithEngine sets the engine name.
func (e *Error) WithEngine(engine string) *Error {
	e.Engine = engine
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given error code.
func IsCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
