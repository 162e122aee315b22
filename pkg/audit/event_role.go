package audit

import "fmt"

// RoleEvent records a change to the role or permission catalog
type RoleEvent struct {
	UserID       string
	ClientIP     string
	Resource     string // "role" or "permission"
	ResourceID   string
	Operation    string // "create", "update" or "delete"
	Success      bool
	ErrorMessage string
}

func (e RoleEvent) MessageID() string {
	return "role"
}

func (e RoleEvent) pastTense() string {
	switch e.Operation {
	case "create":
		return "created"
	case "update":
		return "updated"
	case "delete":
		return "deleted"
	default:
		return e.Operation
	}
}

func (e RoleEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s %s %s", e.UserID, e.pastTense(), e.Resource, e.ResourceID)
	}
	return withError(fmt.Sprintf("%s failed to %s %s %s", e.UserID, e.Operation, e.Resource, e.ResourceID), e.ErrorMessage)
}

func (e RoleEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RoleEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			e.Resource: e.ResourceID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}
