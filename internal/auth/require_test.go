package auth

import (
	"context"
	"errors"
	"testing"

	"todoApp/internal/testutil"
	"todoApp/models"
	"todoApp/repository"
)

func TestRequireIdentityAndRole(t *testing.T) {
	if _, err := RequireIdentity(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated without identity, got %v", err)
	}
	ctx := WithIdentity(context.Background(), &Identity{Username: "u", ID: 1, Role: "user"})
	if _, err := RequireIdentity(ctx); err != nil {
		t.Fatalf("RequireIdentity: %v", err)
	}
	if _, err := RequireRole(ctx, "user"); err != nil {
		t.Fatalf("RequireRole user: %v", err)
	}
	if _, err := RequireRole(ctx, "ADMIN"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdmin_WithDBRoleCheck(t *testing.T) {
	users := repository.NewUserRepository(testutil.OpenInMemoryDB(t, "authadmin"))
	ctx := context.Background()
	u, err := users.Create(ctx, &models.User{Email: "a@x.io", Username: "alice", HashedPassword: "h", IsActive: true})
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}

	// Token claims admin but the stored role is user.
	pctx := WithIdentity(ctx, &Identity{Username: "alice", ID: u.ID, Role: models.RoleAdmin})
	if _, err := RequireAdmin(pctx, users); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin role, got %v", err)
	}

	if err := users.UpdateRoleByUsername(ctx, "alice", models.RoleAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}
	if _, err := RequireAdmin(pctx, users); err != nil {
		t.Fatalf("RequireAdmin real admin: %v", err)
	}
}
