package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked up record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("already exists")

	// ErrInUse is returned when a record can't be removed while referenced
	ErrInUse = errors.New("in use")
)

// EntityError ties ErrNotFound or ErrConflict to the entity, and optionally
// the field, it concerns.
type EntityError struct {
	Entity string
	Field  string
	Err    error
}

func (e *EntityError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s with this %s %s", e.Entity, e.Field, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Entity, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NotFound returns an ErrNotFound for the entity
func NotFound(entity string) error {
	return &EntityError{Entity: entity, Err: ErrNotFound}
}

// Conflict returns an ErrConflict for the entity field
func Conflict(entity, field string) error {
	return &EntityError{Entity: entity, Field: field, Err: ErrConflict}
}

// InUseError reports how many references block a delete
type InUseError struct {
	Entity string
	Count  int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s is assigned to %d users", e.Entity, e.Count)
}

func (e *InUseError) Unwrap() error {
	return ErrInUse
}

// EntityOf returns the entity named by err, or "" when err carries none.
func EntityOf(err error) string {
	var ee *EntityError
	if errors.As(err, &ee) {
		return ee.Entity
	}
	return ""
}

// FieldOf returns the field named by err, or "" when err carries none.
func FieldOf(err error) string {
	var ee *EntityError
	if errors.As(err, &ee) {
		return ee.Field
	}
	return ""
}
