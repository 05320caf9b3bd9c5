// Package formerrors maps backend validation failures onto form fields.
package formerrors

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/pkg/validate"
)

// FormLevel is the field path of errors that belong to the whole form.
const FormLevel = "_error"

// FieldError is one form widget's error messages.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Errors is an ordered set of field buckets. Bucket order is the order in
// which each field was first seen.
type Errors []FieldError

// Map converts error details into field buckets. With no usable entries it
// falls back to a single form-level bucket holding message.
func Map(message string, details envelope.ErrorDetails) Errors {
	var b builder
	switch details.Shape() {
	case envelope.ShapeList:
		for _, it := range details.List() {
			field := it.Field
			if field == "" {
				field = FormLevel
			}
			b.add(field, it.Message)
		}
	case envelope.ShapeLegacyMap:
		for _, f := range details.Legacy() {
			for _, m := range f.Messages {
				b.add(f.Field, m)
			}
		}
	}
	if len(b.out) == 0 {
		return Errors{{Field: FormLevel, Messages: []string{message}}}
	}
	return b.out
}

// FromError maps the envelope carried by err. Errors without an envelope
// map to a single form-level bucket with fallback.
func FromError(err error, fallback string) Errors {
	msg, details, ok := apierror.Details(err)
	if !ok {
		return Map(apierror.Message(err, fallback), envelope.ErrorDetails{})
	}
	if msg == "" {
		msg = fallback
	}
	return Map(msg, details)
}

// FromValidation maps local validator failures the same way a backend 422
// would be mapped. It returns nil for errors that are not ValidationErrors.
func FromValidation(err error) Errors {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	var b builder
	for _, fe := range ve {
		b.add(validate.Path(fe), validate.Message(fe))
	}
	return b.out
}

// Field returns the messages attached to name.
func (e Errors) Field(name string) []string {
	for _, f := range e {
		if f.Field == name {
			return f.Messages
		}
	}
	return nil
}

// Form returns the form-level messages.
func (e Errors) Form() []string { return e.Field(FormLevel) }

type builder struct {
	out   Errors
	index map[string]int
}

func (b *builder) add(field, msg string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	i, ok := b.index[field]
	if !ok {
		b.index[field] = len(b.out)
		b.out = append(b.out, FieldError{Field: field, Messages: []string{msg}})
		return
	}
	b.out[i].Messages = append(b.out[i].Messages, msg)
}
