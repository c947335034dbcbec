package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todoApp/internal/auth"
	"todoApp/repository"
)

type errorBody struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

var (
	errTodoNotFound = echo.NewHTTPError(http.StatusNotFound, "Todo not found")
	errBookNotFound = echo.NewHTTPError(http.StatusNotFound, "Item not found")
	errUserNotFound = echo.NewHTTPError(http.StatusNotFound, "User not found")
)

// statusFor maps the error taxonomy onto HTTP status codes and client-safe bodies.
func statusFor(err error) (int, errorBody) {
	var ve *ValidationError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, errorBody{Detail: ve.Message, Errors: ve.Fields}
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, errorBody{Detail: msg}
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, errorBody{Detail: auth.FailedMessage}
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, errorBody{Detail: err.Error()}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, errorBody{Detail: "username or email already registered"}
	default:
		return http.StatusInternalServerError, errorBody{Detail: http.StatusText(http.StatusInternalServerError)}
	}
}

func newErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, body := statusFor(err)
		if code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
		}
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			log.Warn("write error response", zap.Error(fmt.Errorf("status %d: %w", code, werr)))
		}
	}
}
