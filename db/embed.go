// Package db holds the SQL migrations of the convoyd schema.
package db

import "embed"

// Migrations holds the migration files, embedded for production builds
//
//go:embed migrations/*.sql
var Migrations embed.FS
