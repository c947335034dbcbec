package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"todoApp/internal/auth"
)

func (h *handlers) getUser(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	u, err := st.Users.GetByID(c.Request().Context(), id.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	return c.JSON(http.StatusOK, u)
}

// changePassword requires the current password; a mismatch is a 401.
func (h *handlers) changePassword(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var req passwordChangeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	u, err := st.Users.GetByID(ctx, id.ID)
	if err != nil {
		return err
	}
	if u == nil {
		return errUserNotFound
	}
	if !auth.VerifyPassword(u.HashedPassword, req.Password) {
		h.log.Warn("password change rejected", zap.Int64("user_id", u.ID))
		return echo.NewHTTPError(http.StatusUnauthorized, "Error on password change")
	}
	hashed, err := auth.HashPassword(req.NewPassword, h.bcryptCost)
	if err != nil {
		return err
	}
	if err := st.Users.UpdatePassword(ctx, u.ID, hashed); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) changePhoneNumber(c echo.Context) error {
	id, st, err := caller(c)
	if err != nil {
		return err
	}
	var p phoneNumberParam
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	if err := st.Users.UpdatePhoneNumber(c.Request().Context(), id.ID, p.PhoneNumber); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// adminListUsers pages through all accounts. A zero limit means 100.
func (h *handlers) adminListUsers(c echo.Context) error {
	st, err := storeFrom(c)
	if err != nil {
		return err
	}
	if _, err := auth.RequireAdmin(c.Request().Context(), st.Users); err != nil {
		return err
	}
	var q pageQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}
	users, err := st.Users.List(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
