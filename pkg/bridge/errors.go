package bridge

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a bridge failure into one of the stable categories exposed
// to clients. Values are wire-stable: they appear in error responses and in
// metrics labels.
type Kind string

const (
	// KindResolution means no engine module or handler could be located.
	KindResolution Kind = "resolution_error"

	// KindTimeout means a dispatch exceeded the configured duration.
	KindTimeout Kind = "timeout"

	// KindTransport means the in-process call could not complete.
	KindTransport Kind = "transport_failure"

	// KindUpstream means the engine returned a status >= 400.
	KindUpstream Kind = "upstream_error"

	// KindDecode means the engine's response body was not parseable.
	KindDecode Kind = "decode_error"

	// KindUnauthorized means the request credential was missing or invalid.
	KindUnauthorized Kind = "unauthorized"

	// KindUnavailable means no engine handler has been published.
	KindUnavailable Kind = "service_unavailable"
)

// Error is the normalized failure value for every bridge failure domain:
// resolution, transport, upstream status, and body decoding. It is an
// immutable value; callers classify with KindOf rather than mutating it.
type Error struct {
	// Kind is the failure category.
	Kind Kind

	// Message is the human-readable detail. It never contains stack traces.
	Message string

	// StatusCode is the upstream HTTP status for KindUpstream (0 otherwise).
	StatusCode int

	// Attempts lists the candidates tried, in order, for KindResolution.
	Attempts []string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Attempts) > 0 {
		return fmt.Sprintf("%s: %s (tried: %s)", e.Kind, e.Message, strings.Join(e.Attempts, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the failure kind from an error chain. Returns the empty
// Kind when err does not carry a bridge error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

// IsKind reports whether err carries a bridge error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// NewResolutionError builds a resolution failure naming every attempted
// candidate in order, plus the last underlying failure for diagnosis.
func NewResolutionError(message string, attempts []string, cause error) *Error {
	return &Error{
		Kind:     KindResolution,
		Message:  message,
		Attempts: attempts,
		Cause:    cause,
	}
}

// NewTimeoutError builds a timeout failure for a single dispatch.
func NewTimeoutError(method, path string, cause error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: fmt.Sprintf("dispatch %s %s exceeded the configured timeout", method, path),
		Cause:   cause,
	}
}

// NewTransportError builds an in-process transport failure.
func NewTransportError(method, path string, cause error) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("dispatch %s %s failed: %v", method, path, cause),
		Cause:   cause,
	}
}

// NewUpstreamError builds a failure for an engine status >= 400. The body is
// expected to be pre-bounded by the caller.
func NewUpstreamError(statusCode int, body string) *Error {
	return &Error{
		Kind:       KindUpstream,
		Message:    fmt.Sprintf("engine returned status %d: %s", statusCode, body),
		StatusCode: statusCode,
	}
}

// NewDecodeError builds a failure for an unparseable engine response body.
func NewDecodeError(cause error) *Error {
	return &Error{
		Kind:    KindDecode,
		Message: "engine returned a body that is not valid JSON",
		Cause:   cause,
	}
}

// NewUnavailableError builds the degraded-state failure returned while no
// engine handler is published.
func NewUnavailableError() *Error {
	return &Error{
		Kind:    KindUnavailable,
		Message: "evaluation engine is not initialised",
	}
}
