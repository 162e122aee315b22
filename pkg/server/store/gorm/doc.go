// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Queries are written as SQL and run through GORM so that the join loading a
// user's roles and permissions is a single statement. PostgreSQL constraint
// violations are translated into store.ErrConflict and store.ErrNotFound.
package gorm
