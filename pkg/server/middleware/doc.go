// Package middleware provides the HTTP authorization chain for convoyd.
//
// Authenticator verifies the "Authorization: Bearer <token>" header and
// loads the caller's profile into the request context. Gate.Require then
// checks one permission against that profile:
//
//	auth := middleware.NewAuthenticator(verifier, loader, logger)
//	gate := middleware.NewGate(logger)
//	r.Handle("/roles", auth.Middleware(gate.Require(permission.PermissionViewRoles)(h)))
//
// Failures are written as {"error": {"code": ..., "message": ...}} with
// 401 for missing or invalid credentials, 403 for inactive accounts and
// missing permissions, and 500 for system faults.
package middleware
