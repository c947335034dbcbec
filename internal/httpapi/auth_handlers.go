package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"todoApp/internal/auth"
	"todoApp/models"
)

// register creates an account. Admin accounts need ALLOW_ADMIN_SIGNUP.
func (h *handlers) register(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st, err := storeFrom(c)
	if err != nil {
		return err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && !h.allowAdminSignup {
		return echo.NewHTTPError(http.StatusForbidden, "admin registration is disabled")
	}
	hashed, err := auth.HashPassword(req.Password, h.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return &ValidationError{Message: "password too long", Fields: []FieldError{{Field: "password", Rule: "max", Param: "72"}}}
		}
		return err
	}
	u, err := st.Users.Create(c.Request().Context(), &models.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashed,
		IsActive:       true,
		Role:           role,
		PhoneNumber:    req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	h.log.Info("user registered", zap.Int64("user_id", u.ID), zap.String("username", u.Username))
	return c.JSON(http.StatusCreated, u)
}

// login checks the password and issues an access token.
func (h *handlers) login(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st, err := storeFrom(c)
	if err != nil {
		return err
	}
	u, err := st.Users.GetByUsername(c.Request().Context(), req.Username)
	if err != nil {
		return err
	}
	reason := ""
	switch {
	case u == nil:
		auth.BurnPasswordCheck(req.Password)
		reason = "unknown_user"
	case !auth.VerifyPassword(u.HashedPassword, req.Password):
		reason = "bad_password"
	case !u.IsActive:
		reason = "inactive"
	}
	if reason != "" {
		h.log.Warn("login rejected", zap.String("username", req.Username), zap.String("reason", reason))
		return auth.Unauthorized(c)
	}
	tok, _, err := h.tokens.Issue(u.Username, u.ID, u.Role, 0)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.tokens.TTL().Seconds()),
	})
}

// logout revokes the presented token until it would have expired.
func (h *handlers) logout(c echo.Context) error {
	tok, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return auth.Unauthorized(c)
	}
	if err := h.tokens.Revoke(c.Request().Context(), tok); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
