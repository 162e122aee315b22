// Package model defines the database models for convoyd.
//
// The models map onto the PostgreSQL schema created by the migrations under
// db/migrations.
//
// # Core Models
//
//   - User: an account that can sign in and act on the API
//   - Role: a named bundle of permissions assigned to users
//   - Permission: a catalog entry granted to roles
//   - UserRole: the user to role assignment
//   - RolePermission: the role to permission grant
//
// # Database Schema
//
//   - users: accounts, unique on email and phone_number
//   - roles: unique on name
//   - permissions: unique on name
//   - user_roles: (user_id, role_id)
//   - role_permissions: (role_id, permission_id)
package model
