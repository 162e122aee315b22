// Package store provides storage abstractions for the convoyd server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints and the authorization core to be decoupled from the
// database implementation. This enables testing with mocks.
//
// # Available Stores
//
//   - SubjectStore: user lookup with roles and permissions, signup, activation
//   - RolesStore: role and permission management
//   - HealthStore: database connectivity
//   - ConvoyStore: convoys and their participants
//   - CommitteeStore: committees and their members
//   - VolunteerStore: volunteer applications and their review
//   - VillageStore: villages and the data recorded for them
//
// # Errors
//
// Implementations report missing records with ErrNotFound, uniqueness
// violations with ErrConflict and blocked deletes with ErrInUse. The entity
// concerned is carried by EntityError:
//
//	u, err := subjects.FindSubjectByID(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // Handle not found
//	}
package store
