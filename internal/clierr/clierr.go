// Package clierr defines coded errors shared by all CLI commands. Codes are
// stable strings surfaced in JSON output so scripts can branch on them
// without parsing messages.
package clierr

import "fmt"

// Error codes. User-facing failures exit 1, internal failures exit 2.
const (
	RegistryNotFound    = "REGISTRY_NOT_FOUND"
	MalformedRegistry   = "MALFORMED_REGISTRY"
	AmbiguousTopic      = "AMBIGUOUS_TOPIC"
	UnknownTopic        = "UNKNOWN_TOPIC"
	DuplicateSlide      = "DUPLICATE_SLIDE"
	CopyFailed          = "COPY_FAILED"
	NoHistory           = "NO_HISTORY"
	VCSUnavailable      = "VCS_UNAVAILABLE"
	RendererUnavailable = "RENDERER_UNAVAILABLE"
	InvalidDate         = "INVALID_DATE"
	InvalidInput        = "INVALID_INPUT"
	InternalError       = "INTERNAL_ERROR"
)

// Error is a CLI error with a stable machine-readable code and optional
// structured details for JSON output.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// New returns an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf returns an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches structured details and returns the error for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode maps the error code to a process exit code: 2 for internal
// errors, 1 for everything else.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2
	}
	return 1
}

// SilentError carries an exit code without printing anything further.
// Used when the command has already written its own diagnostics.
type SilentError struct {
	Code int
}

func (e *SilentError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
