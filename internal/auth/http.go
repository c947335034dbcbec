package auth

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FailedMessage is the only detail a client ever sees for a rejected token.
const FailedMessage = "Could not validate user."

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", tokenErr(ReasonMissing, errors.New("missing authorization"))
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", tokenErr(ReasonMalformed, errors.New("invalid authorization header"))
	}
	return strings.TrimSpace(parts[1]), nil
}

// Middleware verifies the bearer token of each request and stores the Identity in
// the request context. Rejections are logged with their reason and answered with 401.
func Middleware(tm *TokenManager, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  "identity",
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			req := c.Request()
			id, err := tm.Verify(req.Context(), token)
			if err != nil {
				return nil, err
			}
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			return id, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			switch {
			case errors.Is(err, ErrUnauthenticated):
			case errors.Is(err, echojwt.ErrJWTMissing):
				err = tokenErr(headerReason(c.Request().Header.Get(echo.HeaderAuthorization)), err)
			default:
				return err
			}
			log.Warn("token rejected",
				zap.String("reason", string(ReasonOf(err))),
				zap.String("path", c.Request().URL.Path),
				zap.Error(err))
			return Unauthorized(c)
		},
	})
}

// headerReason tells an absent Authorization header from one with the wrong scheme.
func headerReason(header string) Reason {
	if strings.TrimSpace(header) == "" {
		return ReasonMissing
	}
	return ReasonMalformed
}

// Unauthorized builds the 401 response error with a Bearer challenge.
func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, FailedMessage)
}
