package identity

import (
	"context"
	"sort"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Profile.
	Key ContextKey = "identity"

	// DefaultSuperRole is the role name that bypasses permission checks
	// unless configured otherwise.
	DefaultSuperRole = "SUPER_ADMIN"
)

// RoleKind distinguishes ordinary roles from the super role.
type RoleKind int

const (
	RoleStandard RoleKind = iota
	RoleSuperAdmin
)

func (k RoleKind) String() string {
	switch k {
	case RoleSuperAdmin:
		return "superAdmin"
	default:
		return "standard"
	}
}

// KindForRoleName classifies a role by name. Only an exact match on the super
// role name is privileged.
func KindForRoleName(name, superRole string) RoleKind {
	if superRole != "" && name == superRole {
		return RoleSuperAdmin
	}
	return RoleStandard
}

// Role is a role as seen by the evaluator
type Role struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Kind        RoleKind                `json:"kind"`
	Permissions []permission.Permission `json:"permissions"`
}

// Profile is the authorization view of the authenticated subject for a
// single request. It is built from storage, attached to the request context
// and never persisted.
type Profile struct {
	SubjectID string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsActive  bool   `json:"isActive"`
	Roles     []Role `json:"roles"`
}

// FromUser builds a Profile from a user loaded with its roles and their
// permissions. Stored permission names outside the catalog are dropped.
func FromUser(u *model.User, superRole string) *Profile {
	p := &Profile{
		SubjectID: u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		Roles:     make([]Role, 0, len(u.Roles)),
	}
	for _, r := range u.Roles {
		role := Role{
			ID:          r.ID,
			Name:        r.Name,
			Kind:        KindForRoleName(r.Name, superRole),
			Permissions: make([]permission.Permission, 0, len(r.Permissions)),
		}
		for _, stored := range r.Permissions {
			if perm, ok := permission.Parse(stored.Name); ok {
				role.Permissions = append(role.Permissions, perm)
			}
		}
		p.Roles = append(p.Roles, role)
	}
	return p
}

// IsSuper reports whether any assigned role is the super role.
func (p *Profile) IsSuper() bool {
	for _, r := range p.Roles {
		if r.Kind == RoleSuperAdmin {
			return true
		}
	}
	return false
}

// PermissionSet returns the union of all role permissions.
func (p *Profile) PermissionSet() map[permission.Permission]struct{} {
	set := make(map[permission.Permission]struct{})
	for _, r := range p.Roles {
		for _, perm := range r.Permissions {
			set[perm] = struct{}{}
		}
	}
	return set
}

// Permissions returns the deduplicated union of all role permissions,
// ordered by catalog position.
func (p *Profile) Permissions() []permission.Permission {
	set := p.PermissionSet()
	result := make([]permission.Permission, 0, len(set))
	for perm := range set {
		result = append(result, perm)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// RoleNames returns the names of the assigned roles.
func (p *Profile) RoleNames() []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Get retrieves the Profile from context.
func Get(ctx context.Context) (*Profile, bool) {
	p, ok := ctx.Value(Key).(*Profile)
	return p, ok && p != nil
}

// Set stores the Profile in a derived context.
func Set(ctx context.Context, p *Profile) context.Context {
	return context.WithValue(ctx, Key, p)
}
