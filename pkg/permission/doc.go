// Package permission defines the closed catalog of capabilities that roles
// grant and routes require.
//
// Permissions are an enumerated type generated with enumer, so a route can
// only ever require a name that exists:
//
//	gate.Require(permission.PermissionActivateUser)
//
// Stored permission names are mapped back with Parse. Names that are not in
// the catalog are rejected, which means a stray row in the permissions table
// can never satisfy a check.
package permission
