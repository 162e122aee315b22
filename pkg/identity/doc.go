// Package identity provides the authorization profile of an authenticated
// request.
//
// A Profile is derived from a stored user together with its roles and each
// role's permissions. Each role is classified once as RoleStandard or
// RoleSuperAdmin so the evaluator never compares role names.
//
// # Basic Usage
//
//	// Build from a user loaded with roles and permissions
//	p := identity.FromUser(user, identity.DefaultSuperRole)
//
//	// Store in a derived request context
//	ctx = identity.Set(ctx, p)
//
//	// Retrieve from context
//	p, ok := identity.Get(ctx)
//
// The profile is request scoped. Handlers read it from the context and never
// mutate it.
package identity
