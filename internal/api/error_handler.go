package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ffi-hr/portal/internal/api/handler"
	"github.com/ffi-hr/portal/internal/core/apierror"
	"github.com/ffi-hr/portal/internal/core/crud"
	"github.com/ffi-hr/portal/internal/core/domain"
	"github.com/ffi-hr/portal/internal/core/formerrors"
)

const statusError = "error"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Keeps the status and field errors of backend failures.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.code)
			return
		}
		_ = c.JSON(resp.code, handler.ErrorView{Status: statusError, Message: resp.message, Errors: resp.errors})
	}
}

type resolved struct {
	code    int
	message string
	errors  formerrors.Errors
}

func resolveError(err error, log zerolog.Logger, c echo.Context) resolved {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return resolved{code: he.Code, message: fmt.Sprintf("%v", he.Message)}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return resolved{code: http.StatusUnprocessableEntity, message: "Validation failed", errors: ve.Errors}
	}

	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		return resolved{code: http.StatusUnauthorized, message: "Session expired"}
	case errors.Is(err, domain.ErrForbidden):
		return resolved{code: http.StatusForbidden, message: "Access forbidden"}
	case errors.Is(err, domain.ErrUnknownEntity), errors.Is(err, domain.ErrNotFound), errors.Is(err, crud.ErrRowNotFound):
		return resolved{code: http.StatusNotFound, message: "Not found"}
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return resolved{code: http.StatusConflict, message: "A submission is already in progress"}
	case errors.Is(err, domain.ErrDialogClosed), errors.Is(err, crud.ErrEditDisabled):
		return resolved{code: http.StatusConflict, message: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resolved{code: http.StatusUnauthorized, message: "Invalid credentials"}
	}

	var upstream *apierror.HTTPError
	if errors.As(err, &upstream) {
		r := resolved{code: upstream.Status, message: upstream.Message()}
		if apierror.Classify(err) == apierror.KindValidation {
			r.errors = formerrors.FromError(err, r.message)
		}
		return r
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	if apierror.Classify(err) == apierror.KindServer {
		return resolved{code: http.StatusBadGateway, message: apierror.Message(err, "Server error")}
	}
	return resolved{code: http.StatusInternalServerError, message: "Server error"}
}
