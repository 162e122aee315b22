package audit

import "fmt"

// ActivationEvent records an administrator activating an account
type ActivationEvent struct {
	UserID       string
	ClientIP     string
	TargetID     string
	Success      bool
	ErrorMessage string
}

func (e ActivationEvent) MessageID() string {
	return "activate"
}

func (e ActivationEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s activated account %s", e.UserID, e.TargetID)
	}
	return withError(fmt.Sprintf("%s failed to activate account %s", e.UserID, e.TargetID), e.ErrorMessage)
}

func (e ActivationEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e ActivationEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ActivationEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"account": e.TargetID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "activate",
			"result":    result(e.Success),
		},
	}
}

// RoleAssignmentEvent records an account's role being replaced
type RoleAssignmentEvent struct {
	UserID       string
	ClientIP     string
	TargetID     string
	RoleID       string
	Success      bool
	ErrorMessage string
}

func (e RoleAssignmentEvent) MessageID() string {
	return "role-assignment"
}

func (e RoleAssignmentEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s assigned role %s to %s", e.UserID, e.RoleID, e.TargetID)
	}
	return withError(fmt.Sprintf("%s failed to assign role %s to %s", e.UserID, e.RoleID, e.TargetID), e.ErrorMessage)
}

func (e RoleAssignmentEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e RoleAssignmentEvent) Facility() int {
	return FacilityAuthPriv
}

func (e RoleAssignmentEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"account": e.TargetID,
			"role":    e.RoleID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "assign-role",
			"result":    result(e.Success),
		},
	}
}
