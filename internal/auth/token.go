package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenTTL is used when neither the manager nor the caller sets a lifetime.
const DefaultTokenTTL = 20 * time.Minute

// MinTokenTTL is the shortest lifetime a token may be issued with.
const MinTokenTTL = time.Second

// ErrUnauthenticated is the single failure callers see for any rejected token.
// Use errors.As with *TokenError to get the internal reason.
var ErrUnauthenticated = errors.New("could not validate credentials")

// Reason classifies why a token was rejected. It is for logs only.
type Reason string

const (
	ReasonMissing          Reason = "missing"
	ReasonMalformed        Reason = "malformed"
	ReasonBadSignature     Reason = "bad_signature"
	ReasonUnexpectedMethod Reason = "unexpected_method"
	ReasonExpired          Reason = "expired"
	ReasonMissingClaims    Reason = "missing_claims"
	ReasonRevoked          Reason = "revoked"
)

// TokenError wraps a verification failure. It matches ErrUnauthenticated.
type TokenError struct {
	Reason Reason
	Err    error
}

func (e *TokenError) Error() string {
	if e.Err == nil {
		return "token " + string(e.Reason)
	}
	return fmt.Sprintf("token %s: %v", e.Reason, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

func (e *TokenError) Is(target error) bool { return target == ErrUnauthenticated }

func tokenErr(r Reason, err error) error { return &TokenError{Reason: r, Err: err} }

// ReasonOf extracts the rejection reason, or "" when err is not a token failure.
func ReasonOf(err error) Reason {
	var te *TokenError
	if errors.As(err, &te) {
		return te.Reason
	}
	return ""
}

// Claims is the signed claim set: sub, id, role, iat, exp and jti.
// exp shadows the embedded registered claim so it keeps full precision.
type Claims struct {
	UserID    *int64  `json:"id,omitempty"`
	Role      string  `json:"role,omitempty"`
	ExpiresAt *Expiry `json:"exp,omitempty"`
	jwt.RegisteredClaims
}

// GetExpirationTime feeds the exact exp to the jwt validator.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == nil {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.ExpiresAt.Time}, nil
}

// Expiry is a NumericDate that keeps nanoseconds on the wire and is decoded
// without a float64 round trip, so expiry lands exactly at issue time + ttl.
type Expiry struct {
	time.Time
}

func (e Expiry) MarshalJSON() ([]byte, error) {
	sec, nsec := e.Unix(), e.Nanosecond()
	if nsec == 0 {
		return []byte(strconv.FormatInt(sec, 10)), nil
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", nsec), "0")
	return []byte(strconv.FormatInt(sec, 10) + "." + frac), nil
}

func (e *Expiry) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("exp: %w", err)
	}
	s := n.String()
	if strings.ContainsAny(s, "eE-") {
		f, err := n.Float64()
		if err != nil {
			return fmt.Errorf("exp: %w", err)
		}
		sec, frac := math.Modf(f)
		e.Time = time.Unix(int64(sec), int64(frac*1e9))
		return nil
	}
	whole, frac, _ := strings.Cut(s, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fmt.Errorf("exp: %w", err)
	}
	var nsec int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		if nsec, err = strconv.ParseInt(frac+strings.Repeat("0", 9-len(frac)), 10, 64); err != nil {
			return fmt.Errorf("exp: %w", err)
		}
	}
	e.Time = time.Unix(sec, nsec)
	return nil
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	revoker Revoker
}

// Option configures a TokenManager.
type Option func(*TokenManager)

// WithClock replaces time.Now, e.g. to test expiry boundaries.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

// WithRevoker makes Verify reject revoked token ids and enables Revoke.
func WithRevoker(r Revoker) Option {
	return func(m *TokenManager) { m.revoker = r }
}

// NewTokenManager builds a manager signing with secret. The secret comes from
// configuration and must not be empty. A ttl of 0 selects DefaultTokenTTL.
func NewTokenManager(secret string, ttl time.Duration, opts ...Option) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if ttl < MinTokenTTL {
		return nil, fmt.Errorf("token ttl %s is below %s", ttl, MinTokenTTL)
	}
	m := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// TTL is the default token lifetime.
func (m *TokenManager) TTL() time.Duration { return m.ttl }

// Issue signs a token for the given user. A ttl of 0 uses the manager default.
// It returns the token and its expiry.
func (m *TokenManager) Issue(username string, id int64, role string, ttl time.Duration) (string, time.Time, error) {
	if username == "" {
		return "", time.Time{}, errors.New("username is required")
	}
	if ttl <= 0 {
		ttl = m.ttl
	}
	if ttl < MinTokenTTL {
		return "", time.Time{}, fmt.Errorf("token ttl %s is below %s", ttl, MinTokenTTL)
	}
	now := m.now()
	exp := now.Add(ttl)
	uid := id
	c := Claims{
		UserID:    &uid,
		Role:      role,
		ExpiresAt: &Expiry{Time: exp},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  username,
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.NewString(),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, c.ExpiresAt.Time, nil
}

// Verify checks signature, expiry, required claims and revocation, and returns the
// identity carried by the token. Every failure matches ErrUnauthenticated.
func (m *TokenManager) Verify(ctx context.Context, token string) (*Identity, error) {
	c, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, tokenErr(ReasonRevoked, nil)
		}
	}
	return &Identity{Username: c.Subject, ID: *c.UserID, Role: c.Role}, nil
}

// Revoke invalidates a still-valid token until its natural expiry.
func (m *TokenManager) Revoke(ctx context.Context, token string) error {
	if m.revoker == nil {
		return errors.New("token revocation is not configured")
	}
	c, err := m.parse(token)
	if err != nil {
		return err
	}
	return m.revoker.Revoke(ctx, c.ID, c.ExpiresAt.Time)
}

func (m *TokenManager) parse(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, tokenErr(ReasonMissing, nil)
	}
	c := &Claims{}
	tok, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, classify(err)
	}
	if !tok.Valid {
		return nil, tokenErr(ReasonMalformed, errors.New("invalid token"))
	}
	if c.Subject == "" || c.UserID == nil {
		return nil, tokenErr(ReasonMissingClaims, errors.New("sub and id are required"))
	}
	return c, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return tokenErr(ReasonMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return tokenErr(ReasonBadSignature, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return tokenErr(ReasonUnexpectedMethod, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenErr(ReasonExpired, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return tokenErr(ReasonMissingClaims, err)
	default:
		return tokenErr(ReasonMalformed, err)
	}
}
