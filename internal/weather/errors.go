package weather

import (
	"errors"
	"fmt"
)

// ErrorKind tags a failure with its place in the error taxonomy.
type ErrorKind string

const (
	KindInvalidRequest      ErrorKind = "invalid_request"
	KindTransportFailure    ErrorKind = "transport_failure"
	KindUnexpectedStatus    ErrorKind = "unexpected_status"
	KindMalformedPayload    ErrorKind = "malformed_payload"
	KindLocationUnavailable ErrorKind = "location_unavailable"
	KindLocationDenied      ErrorKind = "location_denied"
)

// Error is the single error type returned by the forecast client and stored by the session.
type Error struct {
	Kind ErrorKind
	// StatusCode is set for KindUnexpectedStatus.
	StatusCode int
	Err        error
}

// Sentinels match any *Error of the same kind through errors.Is.
var (
	ErrInvalidRequest      = &Error{Kind: KindInvalidRequest}
	ErrTransportFailure    = &Error{Kind: KindTransportFailure}
	ErrUnexpectedStatus    = &Error{Kind: KindUnexpectedStatus}
	ErrMalformedPayload    = &Error{Kind: KindMalformedPayload}
	ErrLocationUnavailable = &Error{Kind: KindLocationUnavailable}
	ErrLocationDenied      = &Error{Kind: KindLocationDenied}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidRequest:
		if e.Err != nil {
			return fmt.Sprintf("Invalid URL: %v", e.Err)
		}
		return "Invalid URL"
	case KindTransportFailure:
		return fmt.Sprintf("Network error: %v", e.Err)
	case KindUnexpectedStatus:
		return fmt.Sprintf("HTTP error with status code: %d", e.StatusCode)
	case KindMalformedPayload:
		return fmt.Sprintf("Decoding error: %v", e.Err)
	case KindLocationUnavailable:
		return "Location not available"
	case KindLocationDenied:
		return "Location access denied. Please enable location services in Settings."
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the taxonomy tag of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NewInvalidRequest wraps a request construction failure.
func NewInvalidRequest(cause error) error {
	return &Error{Kind: KindInvalidRequest, Err: cause}
}

// NewTransportFailure wraps a failed HTTP round trip.
func NewTransportFailure(cause error) error {
	return &Error{Kind: KindTransportFailure, Err: cause}
}

// NewUnexpectedStatus reports a non-200 response.
func NewUnexpectedStatus(code int) error {
	return &Error{Kind: KindUnexpectedStatus, StatusCode: code}
}

// NewMalformedPayload wraps a decoding failure.
func NewMalformedPayload(cause error) error {
	return &Error{Kind: KindMalformedPayload, Err: cause}
}
