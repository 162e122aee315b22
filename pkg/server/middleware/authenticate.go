package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/token"
)

type claimsKey struct{}

// CredentialVerifier validates the Authorization header of a request
type CredentialVerifier interface {
	VerifyHeader(header string) (*token.Claims, error)
}

// ProfileLoader resolves a verified subject into a profile
type ProfileLoader interface {
	Load(ctx context.Context, subjectID string) (*identity.Profile, error)
}

// Authenticator is middleware that verifies the bearer credential and
// attaches the caller's profile to the request context
type Authenticator struct {
	verifier CredentialVerifier
	loader   ProfileLoader
	logger   *slog.Logger
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(verifier CredentialVerifier, loader ProfileLoader, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{verifier: verifier, loader: loader, logger: logger}
}

// Middleware returns an HTTP middleware that rejects the request unless it
// carries a valid credential for an active subject
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.verifier.VerifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			WriteError(w, r, a.logger, err)
			return
		}

		profile, err := a.loader.Load(r.Context(), claims.SubjectID)
		if err != nil {
			WriteError(w, r, a.logger, err)
			return
		}

		ctx := identity.Set(r.Context(), profile)
		ctx = context.WithValue(ctx, claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom returns the verified claims of the request, if any
func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*token.Claims)
	return claims, ok && claims != nil
}
