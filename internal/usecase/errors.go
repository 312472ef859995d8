package usecase

import (
	"context"
	"errors"
	"net/http"

	"HashClock/internal/domain/models"
	xhttp "HashClock/pkg/http"
)

// MapError turns a domain error into an AppError with its HTTP status.
func MapError(err error) *xhttp.AppError {
	var ae *xhttp.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidInstant):
		return xhttp.NewAppError("ERR_INVALID_INPUT", "", err.Error(), http.StatusBadRequest).WithError(err)
	case errors.Is(err, models.ErrUnsupportedBody):
		return xhttp.UnprocessableError("ERR_UNSUPPORTED_BODY", err.Error()).WithError(err)
	case errors.Is(err, models.ErrProviderUnavailable), errors.Is(err, context.DeadlineExceeded):
		return xhttp.UnavailableError("no ephemeris provider could compute the chart").WithError(err)
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
