package apca

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind names one variant of the closed error set an endpoint can report.
// Two kinds apply to every endpoint regardless of its own status table:
// AuthenticationFailed (401) and RateLimitExceeded (429).
type ErrorKind string

const (
	// ErrorKindAuthenticationFailed reports that the key id or secret was
	// rejected by the service.
	ErrorKindAuthenticationFailed ErrorKind = "authentication_failed"
	// ErrorKindRateLimitExceeded reports that the request fell prey to the
	// service's rate limit.
	ErrorKindRateLimitExceeded ErrorKind = "rate_limit_exceeded"
	// ErrorKindInvalidInput reports that the service rejected a request
	// parameter, e.g. an unknown symbol or a malformed page token.
	ErrorKindInvalidInput ErrorKind = "invalid_input"
	// ErrorKindNotPermitted reports that the account's subscription does not
	// grant access to the requested data, e.g. the SIP feed on a free plan.
	ErrorKindNotPermitted ErrorKind = "not_permitted"
	// ErrorKindNotFound reports that the addressed resource does not exist.
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindUnexpectedStatus reports a status code absent from the
	// endpoint's declared table.
	ErrorKindUnexpectedStatus ErrorKind = "unexpected_status"
	// ErrorKindTransportFailure reports a failure before a status code was
	// received: request assembly or the network round trip.
	ErrorKindTransportFailure ErrorKind = "transport_failure"
	// ErrorKindDecodeFailure reports a body that could not be serialized or
	// parsed.
	ErrorKindDecodeFailure ErrorKind = "decode_failure"
)

// APIError is the error value returned for every failed endpoint invocation.
// It carries the classified kind together with the status code and raw body
// when a response was received, so callers can surface the failure unchanged.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Body       []byte
	err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch e.Kind {
	case ErrorKindTransportFailure, ErrorKindDecodeFailure:
		if e.err != nil {
			return fmt.Sprintf("%s: %v", e.Kind, e.err)
		}

		return string(e.Kind)
	default:
		if msg := e.Message(); msg != "" {
			return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, msg)
		}

		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	}
}

// Unwrap exposes the underlying cause of transport and decode failures.
func (e *APIError) Unwrap() error {
	return e.err
}

// Message returns the service's own error message when the body carries one,
// or the empty string.
func (e *APIError) Message() string {
	if len(e.Body) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}

	return payload.Message
}

func newStatusError(kind ErrorKind, status int, body []byte) *APIError {
	return &APIError{Kind: kind, StatusCode: status, Body: body}
}

func newTransportError(err error) *APIError {
	return &APIError{Kind: ErrorKindTransportFailure, err: err}
}

func newDecodeError(body []byte, err error) *APIError {
	return &APIError{Kind: ErrorKindDecodeFailure, Body: body, err: err}
}

// Static errors that can be wrapped with context.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrCredentialsRequired = errors.New("API key id and secret are required")
	ErrEndpointPathFunc    = errors.New("endpoint declares no path function")
	ErrNoMorePages         = errors.New("no more pages")
)

func kindIs(err error, kind ErrorKind) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}

	return false
}

// IsAuthenticationFailed checks whether the error classifies as a rejected
// credential (status 401 on any endpoint).
func IsAuthenticationFailed(err error) bool {
	return kindIs(err, ErrorKindAuthenticationFailed)
}

// IsRateLimitExceeded checks whether the error classifies as rate limiting
// (status 429 on any endpoint).
func IsRateLimitExceeded(err error) bool {
	return kindIs(err, ErrorKindRateLimitExceeded)
}

// IsInvalidInput checks whether the error classifies as rejected input.
func IsInvalidInput(err error) bool {
	return kindIs(err, ErrorKindInvalidInput)
}

// IsNotPermitted checks whether the error classifies as insufficient data
// entitlements.
func IsNotPermitted(err error) bool {
	return kindIs(err, ErrorKindNotPermitted)
}

// IsNotFound checks whether the error classifies as a missing resource.
func IsNotFound(err error) bool {
	return kindIs(err, ErrorKindNotFound)
}

// IsUnexpectedStatus checks whether the error carries a status code outside
// the endpoint's declared table.
func IsUnexpectedStatus(err error) bool {
	return kindIs(err, ErrorKindUnexpectedStatus)
}

// IsTransportFailure checks whether the error occurred before any status code
// was received.
func IsTransportFailure(err error) bool {
	return kindIs(err, ErrorKindTransportFailure)
}

// IsDecodeFailure checks whether the error stems from an undecodable body.
func IsDecodeFailure(err error) bool {
	return kindIs(err, ErrorKindDecodeFailure)
}
