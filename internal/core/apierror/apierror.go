// Package apierror classifies backend failures.
//
// A failure reaches a caller in one of three forms: an HTTPError (non-2xx
// response), a TransportError (no response at all) or an EnvelopeError (an
// error envelope delivered with a 2xx status). Classify treats them alike,
// so callers never need to know which form they got.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/envelope"
)

// Kind is the semantic category of a failure.
type Kind int

const (
	KindNone Kind = iota
	KindUnauthorized
	KindForbidden
	KindValidation
	KindServer
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation_failed"
	case KindServer:
		return "server_error"
	}
	return "unknown"
}

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	Status   int
	Method   string
	Path     string
	Envelope envelope.Response[json.RawMessage]
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message())
}

// Message is the envelope message, or the status text when the body had none.
func (e *HTTPError) Message() string {
	if e.Envelope.Message != "" {
		return e.Envelope.Message
	}
	return http.StatusText(e.Status)
}

// Is lets errors.Is match the sentinels for 401, 403 and 404.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case domain.ErrSessionExpired:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EnvelopeError is an error envelope that arrived with a 2xx status.
type EnvelopeError struct {
	Message string
	Errors  envelope.ErrorDetails
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// FromResponse returns nil for a success envelope and an EnvelopeError for
// an error envelope.
func FromResponse[T any](r envelope.Response[T]) error {
	if r.OK() {
		return nil
	}
	return &EnvelopeError{Message: r.Message, Errors: r.Errors}
}

// Check folds a call result into a single error: a transport failure wins,
// otherwise an error envelope becomes an EnvelopeError.
func Check[T any](r envelope.Response[T], err error) error {
	if err != nil {
		return err
	}
	return FromResponse(r)
}

// Classify maps any error returned by the backend client to a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return classifyStatus(he.Status)
	}

	var ee *EnvelopeError
	if errors.As(err, &ee) {
		if !ee.Errors.Empty() {
			return KindValidation
		}
		return KindUnknown
	}

	var te *TransportError
	if errors.As(err, &te) {
		return KindServer
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return KindUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return KindForbidden
	}
	return KindUnknown
}

func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}

// Details extracts the envelope message and error details carried by err.
// ok is false when err carries no envelope.
func Details(err error) (message string, details envelope.ErrorDetails, ok bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Envelope.Message, he.Envelope.Errors, true
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) {
		return ee.Message, ee.Errors, true
	}
	return "", envelope.ErrorDetails{}, false
}

// Message picks the best human-readable message for err.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Message()
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "Unable to reach the server"
	}
	if fallback != "" {
		return fallback
	}
	return err.Error()
}
