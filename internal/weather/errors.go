package weather

import (
	"errors"
	"fmt"
)

// ErrorKind tags a lookup failure with where it happened. Kinds are assigned
// at the point of failure, never inferred later from message text.
type ErrorKind string

const (
	// KindValidation marks bad input rejected before any upstream call.
	KindValidation ErrorKind = "validation"
	// KindNetwork marks a transport-level failure (DNS, connection refused).
	KindNetwork ErrorKind = "network"
	// KindTimeout marks an upstream call that exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindUpstream marks a non-2xx status, a malformed payload, or any other
	// failure the provider itself is responsible for.
	KindUpstream ErrorKind = "upstream"
)

// LookupError is the one error type a failed lookup surfaces. Status and Body
// are only set for upstream status failures; they are logged by the HTTP
// boundary and never returned to callers.
type LookupError struct {
	Kind   ErrorKind
	Detail string
	Status int
	Body   []byte
	Err    error
}

func (e *LookupError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Detail, e.Status)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
}

func (e *LookupError) Unwrap() error { return e.Err }

// NewValidationError rejects input before it reaches the upstream provider.
// Detail is user-safe and may be returned verbatim.
func NewValidationError(detail string) *LookupError {
	return &LookupError{Kind: KindValidation, Detail: detail}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(detail string, err error) *LookupError {
	return &LookupError{Kind: KindNetwork, Detail: detail, Err: err}
}

// NewTimeoutError wraps a deadline failure.
func NewTimeoutError(detail string, err error) *LookupError {
	return &LookupError{Kind: KindTimeout, Detail: detail, Err: err}
}

// NewUpstreamError records a non-2xx upstream status together with the raw
// response body.
func NewUpstreamError(status int, body []byte) *LookupError {
	return &LookupError{
		Kind:   KindUpstream,
		Detail: "unexpected upstream status",
		Status: status,
		Body:   body,
	}
}

// NewMalformedError records a 2xx response whose body was not well-formed
// JSON.
func NewMalformedError(status int) *LookupError {
	return &LookupError{Kind: KindUpstream, Detail: "malformed upstream payload", Status: status}
}

// NewUpstreamFailure records an upstream-side failure that has no HTTP
// status, such as an open circuit breaker.
func NewUpstreamFailure(detail string, err error) *LookupError {
	return &LookupError{Kind: KindUpstream, Detail: detail, Err: err}
}

// KindOf returns the kind of err, unwrapping as needed, or the empty kind
// when err is not a LookupError.
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}
