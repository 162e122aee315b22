package policy

import (
	"fmt"

	"github.com/convoyrelief/convoyd/pkg/permission"
)

// Role declares a role and the permissions granted to it
type Role struct {
	Name        string                  `yaml:"name"`
	Description string                  `yaml:"description,omitempty"`
	Permissions []permission.Permission `yaml:"-"`
}

// User declares an account holding a role
type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
}

// Policy is a parsed role policy file
type Policy struct {
	Roles []Role
	Users []User
}

// Validate checks that names are present and unique
func (p *Policy) Validate() error {
	roles := make(map[string]struct{}, len(p.Roles))
	for i, r := range p.Roles {
		if r.Name == "" {
			return fmt.Errorf("role %d: name is required", i+1)
		}
		if _, dup := roles[r.Name]; dup {
			return fmt.Errorf("role %s is declared more than once", r.Name)
		}
		roles[r.Name] = struct{}{}
	}

	emails := make(map[string]struct{}, len(p.Users))
	for i, u := range p.Users {
		switch {
		case u.Email == "":
			return fmt.Errorf("user %d: email is required", i+1)
		case u.Username == "":
			return fmt.Errorf("user %s: username is required", u.Email)
		case u.Role == "":
			return fmt.Errorf("user %s: role is required", u.Email)
		}
		if _, dup := emails[u.Email]; dup {
			return fmt.Errorf("user %s is declared more than once", u.Email)
		}
		emails[u.Email] = struct{}{}
	}
	return nil
}
