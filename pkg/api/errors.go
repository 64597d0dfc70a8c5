package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAccessDenied is returned for 403 responses.
	ErrAccessDenied = errors.New("access denied")

	// ErrResourceNotFound is returned for 404 responses.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidRequest is returned for 400 responses.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrMessageRejected is returned for 402 responses.
	ErrMessageRejected = errors.New("message rejected")

	// ErrSendingQuotaExceeded is returned for 429 responses.
	ErrSendingQuotaExceeded = errors.New("sending quota exceeded")

	// ErrServiceUnavailable is returned for 503 responses.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrBadGateway is returned for 502 responses.
	ErrBadGateway = errors.New("bad gateway")

	// ErrInternalError is returned for 500 responses.
	ErrInternalError = errors.New("internal error")

	// ErrMailProviderError is returned for 422 responses.
	ErrMailProviderError = errors.New("mail provider error")

	// ErrAPI is returned for any other status >= 400.
	ErrAPI = errors.New("api error")

	// ErrUnexpectedResponse is returned for informational and redirect
	// statuses, and for well-formed responses missing expected fields.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// ErrJSONParse is returned when a response body is not valid JSON.
	ErrJSONParse = errors.New("json parse error")

	// ErrTimeout is returned when a request exceeds its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrTransport is returned for connection-level failures.
	ErrTransport = errors.New("transport error")
)

var statusKinds = map[int]error{
	http.StatusBadRequest:          ErrInvalidRequest,
	http.StatusPaymentRequired:     ErrMessageRejected,
	http.StatusForbidden:           ErrAccessDenied,
	http.StatusNotFound:            ErrResourceNotFound,
	http.StatusUnprocessableEntity: ErrMailProviderError,
	http.StatusTooManyRequests:     ErrSendingQuotaExceeded,
	http.StatusInternalServerError: ErrInternalError,
	http.StatusBadGateway:          ErrBadGateway,
	http.StatusServiceUnavailable:  ErrServiceUnavailable,
}

// KindForStatus returns the error kind for an HTTP status code, or nil
// for 2xx statuses.
func KindForStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status < 200 || (status >= 300 && status < 400):
		return ErrUnexpectedResponse
	}
	if kind, ok := statusKinds[status]; ok {
		return kind
	}
	return ErrAPI
}

// Error is a non-2xx response from the service.
type Error struct {
	StatusCode int
	Type       string
	Message    string

	// ServerError carries the server_error field when the service sent one.
	ServerError *string

	Kind error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ServerError != nil {
		return fmt.Sprintf("%s (status %d): %s: %s", e.Kind, e.StatusCode, msg, *e.ServerError)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// newError builds an Error from a status code and a decoded body. The body
// may be nil or a non-object when the service returned something else.
func newError(status int, body any) *Error {
	e := &Error{
		StatusCode: status,
		Kind:       KindForStatus(status),
	}
	obj, ok := body.(map[string]any)
	if !ok {
		return e
	}
	if s, ok := obj["type"].(string); ok {
		e.Type = s
	}
	if s, ok := obj["message"].(string); ok {
		e.Message = s
	}
	if s, ok := obj["server_error"].(string); ok {
		e.ServerError = &s
	}
	return e
}

// ParseError reports a response body that could not be decoded.
type ParseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (status %d): %v", ErrJSONParse, e.StatusCode, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrJSONParse, e.Err}
}

// TimeoutError reports a request that exceeded its deadline.
type TimeoutError struct {
	Method string
	URL    string
	Err    error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, ErrTimeout, e.Err)
}

func (e *TimeoutError) Unwrap() []error {
	return []error{ErrTimeout, e.Err}
}

// TransportError reports a connection-level failure.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.URL, ErrTransport, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// IsNotFound reports whether err is a resource-not-found response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// IsRetryable reports whether err is a transient condition a caller may
// retry: throttling, gateway and availability errors, and timeouts.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrBadGateway) ||
		errors.Is(err, ErrSendingQuotaExceeded) ||
		errors.Is(err, ErrTimeout)
}
