package auth

import (
	"context"
)

// Identity is the authenticated caller as carried by a verified token.
// Handlers needing more than this load the user record themselves.
type Identity struct {
	Username string
	ID       int64
	Role     string
}

type identityKey struct{}

// WithIdentity stores the identity in context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext retrieves the identity from context (if any).
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
