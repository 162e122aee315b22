package audit

import "fmt"

// AuthenticateEvent records a signup or signin attempt
type AuthenticateEvent struct {
	// Email is the address presented by the caller
	Email        string
	SubjectID    string
	ClientIP     string
	Operation    string // "signin" or "signup"
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) operation() string {
	if e.Operation == "" {
		return "signin"
	}
	return e.Operation
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s completed %s", e.Email, e.operation())
	}
	return withError(fmt.Sprintf("%s failed %s", e.Email, e.operation()), e.ErrorMessage)
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"email": e.Email,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.operation(),
			"result":    result(e.Success),
		},
	}
	if e.SubjectID != "" {
		sd[SDIDAuth]["user"] = e.SubjectID
	}
	return sd
}
