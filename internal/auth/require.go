package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"todoApp/models"
)

// ErrForbidden means the caller is authenticated but lacks the required role.
var ErrForbidden = errors.New("insufficient permissions")

// UserLookup is the part of the user repository RequireAdmin needs.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// RequireIdentity ensures an identity is present in context.
func RequireIdentity(ctx context.Context) (*Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return id, nil
}

// RequireRole ensures the token carries the given role (case-insensitive).
func RequireRole(ctx context.Context, role string) (*Identity, error) {
	id, err := RequireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(id.Role, role) {
		return nil, fmt.Errorf("%w: only %s can perform this action", ErrForbidden, strings.ToLower(role))
	}
	return id, nil
}

// RequireAdmin ensures the token claims admin AND the stored user still has the
// admin role, so a demoted user's unexpired token stops working.
func RequireAdmin(ctx context.Context, users UserLookup) (*Identity, error) {
	id, err := RequireRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if users == nil {
		return nil, errors.New("users repository not configured")
	}
	u, err := users.GetByID(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || !u.IsAdmin() {
		return nil, fmt.Errorf("%w: only admin can perform this action", ErrForbidden)
	}
	return id, nil
}
