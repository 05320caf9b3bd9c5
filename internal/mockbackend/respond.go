package mockbackend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ffi-hr/portal/internal/core/envelope"
)

// apiError is rendered as an error envelope with its status.
type apiError struct {
	status  int
	message string
	details envelope.ErrorDetails
}

func (e *apiError) Error() string { return fmt.Sprintf("%d %s", e.status, e.message) }

func failure(status int, message string) *apiError {
	return &apiError{status: status, message: message}
}

// invalid is a 422 in the list shape.
func invalid(items ...envelope.ErrorItem) *apiError {
	return &apiError{status: http.StatusUnprocessableEntity, message: "Validation failed", details: envelope.ListDetails(items...)}
}

func fieldError(field, message, code string) envelope.ErrorItem {
	return envelope.ErrorItem{Field: field, Message: message, Code: code}
}

func ok[T any](c echo.Context, status int, data T, message string) error {
	return c.JSON(status, envelope.Success(data, message))
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, message := http.StatusInternalServerError, "Internal server error"
	var details envelope.ErrorDetails

	var ae *apiError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status, message, details = ae.status, ae.message, ae.details
	case errors.As(err, &he):
		status, message = he.Code, fmt.Sprint(he.Message)
	default:
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if err := c.JSON(status, envelope.Failure[struct{}](message, details)); err != nil {
		s.log.Error().Err(err).Msg("writing error response failed")
	}
}
