package permission

//go:generate go run github.com/dmarkham/enumer -type Permission -trimprefix Permission -transform title-lower -json -yaml -text -output permission.gen.go

// Permission is a named capability that can be granted to a role.
// The set is closed: a name that is not declared here can never be required
// by a route, and never matches during evaluation.
type Permission int

const (
	// Committee
	PermissionCreateCommittee Permission = iota
	PermissionUpdateCommittee
	PermissionManageCommitteeMembers

	// Auth/User
	PermissionActivateUser
	PermissionChangeUserRole

	// Convoy
	PermissionCreateConvoy
	PermissionUpdateConvoy
	PermissionManageConvoyParticipants

	// Role
	PermissionViewRoles
	PermissionCreateRole
	PermissionUpdateRole
	PermissionDeleteRole
	PermissionViewPermissions
	PermissionCreatePermission

	// Volunteer/Applications
	PermissionViewApplications
	PermissionViewConvoyApplications
	PermissionManageApplications
	PermissionBlockVolunteer

	// Village
	PermissionManageVillages
	PermissionRecordVillageData
	PermissionUpdateVillageData
)

var descriptions = map[Permission]string{
	PermissionCreateCommittee:          "Allows creating a new committee.",
	PermissionUpdateCommittee:          "Allows updating committee details.",
	PermissionManageCommitteeMembers:   "Allows adding or removing members from a committee.",
	PermissionActivateUser:             "Allows activating a user account.",
	PermissionChangeUserRole:           "Allows changing a user's role.",
	PermissionCreateConvoy:             "Allows creating a new convoy.",
	PermissionUpdateConvoy:             "Allows updating convoy details.",
	PermissionManageConvoyParticipants: "Allows managing participants in a convoy.",
	PermissionViewRoles:                "Allows viewing all roles.",
	PermissionCreateRole:               "Allows creating a new role.",
	PermissionUpdateRole:               "Allows updating an existing role.",
	PermissionDeleteRole:               "Allows deleting a role.",
	PermissionViewPermissions:          "Allows viewing all permissions.",
	PermissionCreatePermission:         "Allows creating a new permission.",
	PermissionViewApplications:         "Allows viewing all volunteer applications.",
	PermissionViewConvoyApplications:   "Allows viewing applications for a specific convoy.",
	PermissionManageApplications:       "Allows managing (approve/reject) volunteer applications.",
	PermissionBlockVolunteer:           "Allows blocking a volunteer from participating.",
	PermissionManageVillages:           "Allows creating or updating villages.",
	PermissionRecordVillageData:        "Allows recording data for a village.",
	PermissionUpdateVillageData:        "Allows updating recorded village data.",
}

// Description returns the human readable description stored alongside the
// permission when the catalog is seeded.
func (i Permission) Description() string {
	return descriptions[i]
}

// Parse maps a stored permission name onto the catalog. Matching is exact:
// "createrole" is not "createRole".
func Parse(name string) (Permission, bool) {
	p, err := PermissionString(name)
	if err != nil || p.String() != name {
		return 0, false
	}
	return p, true
}

// All returns every declared permission in declaration order.
func All() []Permission {
	return PermissionValues()
}

// Except returns the catalog without the given permissions.
func Except(excluded ...Permission) []Permission {
	skip := make(map[Permission]struct{}, len(excluded))
	for _, p := range excluded {
		skip[p] = struct{}{}
	}
	result := make([]Permission, 0, len(_PermissionValues))
	for _, p := range _PermissionValues {
		if _, ok := skip[p]; !ok {
			result = append(result, p)
		}
	}
	return result
}
