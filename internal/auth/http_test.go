package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"todoApp/internal/testutil"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer  abc ", "abc", true},
		{"", "", false},
		{"Basic abc", "", false},
		{"Bearer", "", false},
	}
	for _, tc := range cases {
		got, err := BearerToken(tc.header)
		if (err == nil) != tc.ok || got != tc.want {
			t.Errorf("BearerToken(%q) = %q, %v", tc.header, got, err)
		}
	}
}

func TestMiddleware(t *testing.T) {
	m := newManager(t, &testutil.FixedClock{T: time.Now()})
	e := echo.New()
	core, logs := observer.New(zap.WarnLevel)
	handler := Middleware(m, zap.New(core))(func(c echo.Context) error {
		id, ok := FromContext(c.Request().Context())
		if !ok {
			t.Fatalf("identity not injected")
		}
		return c.String(http.StatusOK, id.Username)
	})

	// valid token
	tok, _, _ := m.Issue("alice", 3, "user", 0)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	testutil.SetBearer(req, tok)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Body.String() != "alice" {
		t.Fatalf("body = %q", rec.Body.String())
	}

	otherKey := testutil.GenerateJWTHS256(t, "another-secret", "alice", 3, "user", time.Hour)

	// missing and bad tokens look the same to the client
	for _, hdr := range []string{"", "Bearer nope", "Token " + tok, "Bearer " + otherKey} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if hdr != "" {
			req.Header.Set(echo.HeaderAuthorization, hdr)
		}
		rec := httptest.NewRecorder()
		err := handler(e.NewContext(req, rec))
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized || he.Message != FailedMessage {
			t.Fatalf("header %q: err = %#v", hdr, err)
		}
		if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
			t.Fatalf("missing WWW-Authenticate challenge")
		}
	}

	var reasons []string
	for _, entry := range logs.FilterMessage("token rejected").All() {
		reasons = append(reasons, entry.ContextMap()["reason"].(string))
	}
	want := []string{"missing", "malformed", "malformed", "bad_signature"}
	if len(reasons) != len(want) {
		t.Fatalf("logged reasons = %v, want %v", reasons, want)
	}
	for i := range want {
		if reasons[i] != want[i] {
			t.Fatalf("logged reasons = %v, want %v", reasons, want)
		}
	}
}
