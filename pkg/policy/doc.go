// Package policy parses role policy files.
//
// A role policy declares roles with their permission grants and the accounts
// that hold them. It is loaded with `convoyctl policy load` on top of the
// bootstrap roles.
//
// # Policy Format
//
// Policies are YAML sequences of tagged statements:
//
//   - !role
//     name: DISPATCHER
//     description: Plans convoys
//     permissions: [createConvoy, updateConvoy, viewApplications]
//   - !user
//     username: dana
//     email: dana@example.org
//     role: DISPATCHER
//
// Permission names must belong to the catalog; an unknown name rejects the
// whole file. A user may reference any role in the file or an existing one.
package policy
