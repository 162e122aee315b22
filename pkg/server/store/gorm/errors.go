package gorm

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"

	"github.com/convoyrelief/convoyd/pkg/server/store"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates driver errors into store errors. entity names the
// record being written, referenced names the record a foreign key points at.
func mapError(err error, entity, referenced string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.NotFound(entity)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return store.Conflict(entity, fieldFromConstraint(pgErr.ConstraintName))
		case pgForeignKeyViolation:
			if referenced == "" {
				referenced = entityFromConstraint(pgErr.ConstraintName)
			}
			return store.NotFound(referenced)
		}
	}
	return err
}

// fieldFromConstraint recovers the column from constraint names of the form
// <table>_<column>_key.
func fieldFromConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "phone_number"):
		return "phone number"
	case strings.Contains(constraint, "email"):
		return "email"
	case strings.Contains(constraint, "name"):
		return "name"
	}
	return ""
}

// entityFromConstraint recovers the referenced entity from foreign key names
// of the form <table>_<column>_fkey.
func entityFromConstraint(constraint string) string {
	switch {
	case strings.Contains(constraint, "_user_id_"):
		return "user"
	case strings.Contains(constraint, "_convoy_id_"):
		return "convoy"
	case strings.Contains(constraint, "_committee_id_"):
		return "committee"
	case strings.Contains(constraint, "_village_id_"):
		return "village"
	case strings.Contains(constraint, "_role_id_"):
		return "role"
	}
	return ""
}
