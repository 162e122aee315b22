// Package authz is the authorization core: it turns a verified subject id
// into a profile and decides whether that profile holds a permission.
//
// # Flow
//
//	claims, err := verifier.VerifyHeader(r.Header.Get("Authorization"))
//	profile, err := loader.Load(ctx, claims.SubjectID)
//	err = authz.Evaluate(profile, permission.PermissionActivateUser)
//
// # Errors
//
// Every failure is an *Error with a stable code and HTTP status:
//
//   - ErrAuthenticationRequired: 401, no credential or unknown subject
//   - ErrInvalidToken: 401, bad signature, malformed or expired
//   - ErrAccountInactive: 403, subject not activated
//   - ErrInsufficientPermissions: 403, permission missing
//   - ErrSystem: 500, the decision could not be made
//
// errors.Is matches on the code, so a sentinel wrapped with a cause still
// classifies as the sentinel.
package authz
