// Package password hashes and checks account passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password doesn't match its hash
var ErrMismatch = errors.New("password does not match")

// Cost is the bcrypt work factor used for new hashes
var Cost = bcrypt.DefaultCost

// Hash returns the bcrypt hash of a password
func Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks a password against a hash. Any failure, including a
// malformed hash, is reported as ErrMismatch.
func Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrMismatch
	}
	return nil
}
