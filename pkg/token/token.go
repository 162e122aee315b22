package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/convoyrelief/convoyd/pkg/authz"
)

// DefaultTTL is the lifetime of an issued credential
const DefaultTTL = time.Hour

const scheme = "Bearer"

// ErrMissingSecret is returned when no signing secret is configured
var ErrMissingSecret = errors.New("token signing secret is not configured")

// Subject is what the issuer needs to know about a subject
type Subject struct {
	ID       string
	Username string
}

// Claims is a verified credential assertion
type Claims struct {
	SubjectID string
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// assertion is the signed payload. id mirrors sub for clients that read it.
type assertion struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Issuer signs credentials for authenticated subjects
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A ttl of zero selects DefaultTTL.
func NewIssuer(secret []byte, ttl time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued credentials
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a credential for the subject with HS256
func (i *Issuer) Issue(s Subject) (string, error) {
	now := i.now()
	claims := assertion{
		ID:       s.ID,
		Username: s.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verifier checks credentials signed by an Issuer sharing its secret
type Verifier struct {
	secret []byte
	now    func() time.Time
}

// VerifierOption configures a Verifier
type VerifierOption func(*Verifier)

// WithClock sets the time source used for expiry checks
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		v.now = now
	}
}

// NewVerifier creates a Verifier
func NewVerifier(secret []byte, opts ...VerifierOption) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	v := &Verifier{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// VerifyHeader verifies the credential in an Authorization header value of
// the form "Bearer <token>". A missing or malformed header yields
// authz.ErrAuthenticationRequired.
func (v *Verifier) VerifyHeader(header string) (*Claims, error) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != scheme || parts[1] == "" {
		return nil, authz.ErrAuthenticationRequired
	}
	return v.Verify(parts[1])
}

// Verify checks signature, algorithm and expiry of a raw credential.
// Every failure yields authz.ErrInvalidToken wrapping the cause.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	var claims assertion
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, authz.ErrInvalidToken.Wrap(err)
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.ID
	}
	if subject == "" {
		return nil, authz.ErrInvalidToken.Wrap(errors.New("token has no subject"))
	}

	result := &Claims{
		SubjectID: subject,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}

// IsExpired reports whether err is a verification failure caused by expiry
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
