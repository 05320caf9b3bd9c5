// Package envelope models the backend response wrapper.
//
// Every backend response is either
//
//	{"status":"success","data":...,"message":"..."}
//	{"status":"error","message":"...","errors":[...]}
//
// Decode turns the wire form into a Response whose error details are a
// tagged variant (list or legacy map). Callers that need a flat view use
// ErrorDetails.Items, which always yields the list form.
package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the envelope discriminator.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrMalformed is returned when a body is not a recognisable envelope.
var ErrMalformed = errors.New("envelope: malformed response body")

// Response is the decoded envelope. Exactly one of the success or error
// halves is meaningful, selected by Status.
type Response[T any] struct {
	Status  Status
	Data    T
	Message string
	Errors  ErrorDetails
}

// Success builds a success envelope.
func Success[T any](data T, message string) Response[T] {
	return Response[T]{Status: StatusSuccess, Data: data, Message: message}
}

// Failure builds an error envelope.
func Failure[T any](message string, details ErrorDetails) Response[T] {
	return Response[T]{Status: StatusError, Message: message, Errors: details}
}

// OK reports whether the envelope is a success.
func (r Response[T]) OK() bool { return r.Status == StatusSuccess }

type wire struct {
	Status  Status          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Errors  *ErrorDetails   `json:"errors,omitempty"`
	// Django's default error body, seen on endpoints outside the handler.
	Detail string `json:"detail,omitempty"`
}

// Decode parses body as an envelope carrying T.
func Decode[T any](body []byte) (Response[T], error) {
	var out Response[T]
	var w wire
	if err := json.Unmarshal(body, &w); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch w.Status {
	case StatusSuccess:
		out.Status = StatusSuccess
		out.Message = w.Message
		if len(w.Data) > 0 && !bytes.Equal(w.Data, []byte("null")) {
			if err := json.Unmarshal(w.Data, &out.Data); err != nil {
				return out, fmt.Errorf("envelope: decode data: %w", err)
			}
		}
	case StatusError:
		out.Status = StatusError
		out.Message = w.Message
		if out.Message == "" {
			out.Message = w.Detail
		}
		if w.Errors != nil {
			out.Errors = *w.Errors
		}
	default:
		if w.Detail != "" {
			return Failure[T](w.Detail, ErrorDetails{}), nil
		}
		return out, fmt.Errorf("%w: unknown status %q", ErrMalformed, w.Status)
	}
	return out, nil
}

// MarshalJSON writes the wire form. Error details keep their shape, so a
// legacy map stays a map.
func (r Response[T]) MarshalJSON() ([]byte, error) {
	if r.Status == StatusError {
		w := struct {
			Status  Status        `json:"status"`
			Message string        `json:"message"`
			Errors  *ErrorDetails `json:"errors,omitempty"`
		}{Status: StatusError, Message: r.Message}
		if !r.Errors.Empty() {
			w.Errors = &r.Errors
		}
		return json.Marshal(w)
	}
	return json.Marshal(struct {
		Status  Status `json:"status"`
		Data    T      `json:"data"`
		Message string `json:"message,omitempty"`
	}{StatusSuccess, r.Data, r.Message})
}
