package authz

import (
	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/permission"
)

// Evaluate decides whether the profile holds the required permission.
// A super role allows everything. Otherwise the permission must be in the
// union of the permissions of all assigned roles.
func Evaluate(p *identity.Profile, required permission.Permission) error {
	if p == nil {
		return ErrAuthenticationRequired
	}
	if p.IsSuper() {
		return nil
	}
	if _, ok := p.PermissionSet()[required]; ok {
		return nil
	}
	return ErrInsufficientPermissions
}
