package crud

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/envelope"
	"github.com/ffi-hr/portal/internal/core/formerrors"
)

// Result is what a mutating action produced.
type Result[V any] struct {
	Outcome Outcome           `json:"outcome"`
	Data    V                 `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
	Errors  formerrors.Errors `json:"errors,omitempty"`
}

// Submit validates input locally, then runs call and classifies the result.
//
//   - local validation failure: OutcomeInvalid, no call is made
//   - 422-shaped failure: OutcomeInvalid with mapped field errors
//   - 403: OutcomeForbidden
//   - 401: OutcomeSessionExpired, and the error is returned
//   - anything else: OutcomeFailed with a message
//
// v may be nil to skip local validation.
func Submit[V any](ctx context.Context, v *validator.Validate, input any, call func(context.Context) (envelope.Response[V], error), fallback string) (Result[V], error) {
	if v != nil && input != nil {
		if err := v.Struct(input); err != nil {
			if errs := formerrors.FromValidation(err); errs != nil {
				return Result[V]{Outcome: OutcomeInvalid, Errors: errs}, nil
			}
			return Result[V]{}, err
		}
	}

	resp, err := call(ctx)
	failure := apierror.Check(resp, err)
	if failure == nil {
		return Result[V]{Outcome: OutcomeSaved, Data: resp.Data, Message: resp.Message}, nil
	}
	return classifyFailure[V](failure, fallback)
}

func classifyFailure[V any](failure error, fallback string) (Result[V], error) {
	switch apierror.Classify(failure) {
	case apierror.KindUnauthorized:
		return Result[V]{Outcome: OutcomeSessionExpired}, failure
	case apierror.KindForbidden:
		return Result[V]{Outcome: OutcomeForbidden, Message: apierror.Message(failure, "Forbidden")}, nil
	case apierror.KindValidation:
		return Result[V]{
			Outcome: OutcomeInvalid,
			Message: apierror.Message(failure, fallback),
			Errors:  formerrors.FromError(failure, fallback),
		}, nil
	}
	return Result[V]{Outcome: OutcomeFailed, Message: apierror.Message(failure, fallback)}, nil
}
