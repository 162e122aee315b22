// Package token issues and verifies the bearer credentials presented to the
// API.
//
// Credentials are HS256 JWTs carrying the subject id, the username and
// issued-at and expiry times. They are stateless: verification never
// touches storage, so a deleted or deactivated subject is only caught once
// the credential is resolved into a profile.
//
//	issuer, err := token.NewIssuer(secret, time.Hour)
//	raw, err := issuer.Issue(token.Subject{ID: user.ID, Username: user.Username})
//
//	verifier, err := token.NewVerifier(secret)
//	claims, err := verifier.VerifyHeader(r.Header.Get("Authorization"))
package token
