// Package auth issues and verifies the HS256 session tokens that identify callers.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	DefaultIssuer     = "videosync"
	DefaultSessionTTL = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMissingSecret      = errors.New("token secret is required")
)

// Session is an issued token and its expiry.
type Session struct {
	Token     string
	Subject   string
	ExpiresAt time.Time
}

// Authenticator signs and validates session tokens with a shared secret.
type Authenticator struct {
	key       jwk.Key
	accessKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock overrides the time source used for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithTTL sets how long issued sessions stay valid.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) { a.ttl = ttl }
}

// WithAccessKey requires callers to present key when opening a session.
func WithAccessKey(key string) Option {
	return func(a *Authenticator) { a.accessKey = []byte(key) }
}

// NewAuthenticator creates an Authenticator signing with secret.
func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}

	key, err := jwk.FromRaw(secret)
	if err != nil {
		return nil, fmt.Errorf("build signing key: %w", err)
	}

	a := &Authenticator{
		key:    key,
		issuer: DefaultIssuer,
		ttl:    DefaultSessionTTL,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Login opens a session for subject once the access key matches.
// With no access key configured every subject is accepted.
func (a *Authenticator) Login(subject, accessKey string) (*Session, error) {
	if subject == "" {
		return nil, ErrInvalidCredentials
	}

	if len(a.accessKey) > 0 && subtle.ConstantTimeCompare(a.accessKey, []byte(accessKey)) != 1 {
		return nil, ErrInvalidCredentials
	}

	return a.Issue(subject)
}

// Issue signs a token for subject.
func (a *Authenticator) Issue(subject string) (*Session, error) {
	now := a.now()
	expires := now.Add(a.ttl)

	token, err := jwt.NewBuilder().
		Issuer(a.issuer).
		Subject(subject).
		IssuedAt(now).
		Expiration(expires).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, a.key))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Session{Token: string(signed), Subject: subject, ExpiresAt: expires}, nil
}

// Verify validates a token and returns its subject.
func (a *Authenticator) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256, a.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(a.issuer),
		jwt.WithClock(jwt.ClockFunc(a.now)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if token.Subject() == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return token.Subject(), nil
}

type principalKey struct{}

// ContextWithPrincipal stores the authenticated principal id in ctx.
func ContextWithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}

// PrincipalFromContext returns the principal id, if the request was authenticated.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalKey{}).(string)

	return id, ok && id != ""
}
