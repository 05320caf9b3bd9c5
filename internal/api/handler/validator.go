package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/ffi-hr/portal/internal/core/formerrors"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator(v *validator.Validate) *echoValidator {
	return &echoValidator{v: v}
}

// ValidationError carries field errors found before anything reached the
// backend. They have the same shape as mapped backend 422s.
type ValidationError struct {
	Errors formerrors.Errors
}

func (e *ValidationError) Error() string { return "request validation failed" }

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		if errs := formerrors.FromValidation(err); errs != nil {
			return &ValidationError{Errors: errs}
		}
		return err
	}
	return nil
}
