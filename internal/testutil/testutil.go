package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"todoApp/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// name must be unique per test: shared-cache databases with the same name are shared.
func OpenInMemoryDB(t *testing.T, name string) *db.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// SignHS256 signs arbitrary claims, for building tokens the app itself would never issue.
func SignHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// GenerateJWTHS256 returns a token with the claims the app issues, expiring in ttl.
func GenerateJWTHS256(t *testing.T, secret, username string, id int64, role string, ttl time.Duration) string {
	t.Helper()
	return SignHS256(t, secret, jwt.MapClaims{
		"sub":  username,
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	})
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

// SetBearer sets the HTTP Authorization header.
func SetBearer(r *http.Request, token string) {
	r.Header.Set("Authorization", "Bearer "+token)
}

// FixedClock returns a settable clock for token expiry tests.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }
