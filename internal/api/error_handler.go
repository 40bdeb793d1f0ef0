package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/api/handler"
	"github.com/coderr/marketplace/internal/api/metrics"
	"github.com/coderr/marketplace/internal/core/domain"
)

const msgValidation = "validation failed"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders field-level validation failures as {"error", "fields"}.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if ve, ok := domain.AsValidation(err); ok {
			_ = c.JSON(http.StatusBadRequest, handler.ValidationResponse{Error: msgValidation, Fields: ve.Fields})
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusForbidden {
			metrics.AuthorizationDenialsTotal.WithLabelValues(c.Path()).Inc()
		}
		_ = c.JSON(code, handler.ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid credentials."
	case errors.Is(err, domain.ErrUserExists), errors.Is(err, domain.ErrDuplicateReview):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrOfferNotFound),
		errors.Is(err, domain.ErrPackageNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrReviewNotFound),
		errors.Is(err, domain.ErrPageNotFound):
		return http.StatusNotFound, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	report(err, c)

	return http.StatusInternalServerError, "internal server error"
}

// report forwards an unexpected error to Sentry. Without a configured DSN
// the capture is a no-op.
func report(err error, c echo.Context) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Request().Method)
		scope.SetTag("route", c.Path())
		scope.SetTag("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		sentry.CaptureException(err)
	})
}
