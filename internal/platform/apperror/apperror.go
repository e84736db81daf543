// Package apperror defines the application error taxonomy shared by all
// domain services and the echo error handler that maps it onto the HTTP
// boundary: ValidationError -> 400, NotFoundError -> 404,
// AuthorizationError -> 403. Every failure response uses the
// {success:false, message|errors} envelope the browser client expects.
package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ValidationError reports malformed or missing input. When Fields is
// populated the handler responds with a field-keyed error map; otherwise
// Message is returned as a single message.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// Validation returns a ValidationError with a field-keyed detail map.
func Validation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ValidationMsg returns a ValidationError carrying a single message.
func ValidationMsg(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// NotFoundError reports an id that does not resolve to an entity.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound returns a NotFoundError with the given message.
func NotFound(msg string) *NotFoundError {
	return &NotFoundError{Message: msg}
}

// AuthorizationError reports a role or ownership gate failure. The reason is
// surfaced to the caller verbatim.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return e.Reason }

// Forbidden returns an AuthorizationError with the given reason.
func Forbidden(reason string) *AuthorizationError {
	return &AuthorizationError{Reason: reason}
}

// NotExistsError marks an expected miss (e.g. an appointment without a
// review). It maps to 404 with an explicit exists:false marker so clients
// can distinguish it from a broken id.
type NotExistsError struct {
	Message string
}

func (e *NotExistsError) Error() string { return e.Message }

// NotExists returns a NotExistsError with the given message.
func NotExists(msg string) *NotExistsError {
	return &NotExistsError{Message: msg}
}

// HTTPErrorHandler returns an echo error handler translating application
// errors to status codes and the JSON failure envelope.
func HTTPErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			ve *ValidationError
			nf *NotFoundError
			ae *AuthorizationError
			ne *NotExistsError
			he *echo.HTTPError
		)

		switch {
		case errors.As(err, &ve):
			if len(ve.Fields) > 0 {
				_ = c.JSON(http.StatusBadRequest, echo.Map{"success": false, "errors": ve.Fields})
				return
			}
			_ = c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": ve.Message})
		case errors.As(err, &nf):
			_ = c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": nf.Message})
		case errors.As(err, &ae):
			_ = c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": ae.Reason})
		case errors.As(err, &ne):
			_ = c.JSON(http.StatusNotFound, echo.Map{"success": false, "exists": false, "message": ne.Message})
		case errors.As(err, &he):
			if s, ok := he.Message.(string); ok {
				_ = c.JSON(he.Code, echo.Map{"success": false, "message": s})
				return
			}
			_ = c.JSON(he.Code, echo.Map{"success": false, "message": http.StatusText(he.Code)})
		default:
			logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("unhandled error")
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal server error"})
		}
	}
}
