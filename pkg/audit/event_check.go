package audit

import "fmt"

// CheckEvent records a per-route permission decision
type CheckEvent struct {
	UserID     string
	ClientIP   string
	Route      string
	Permission string
	Allowed    bool
}

func (e CheckEvent) MessageID() string {
	return "check"
}

func (e CheckEvent) Message() string {
	decision := "allowed"
	if !e.Allowed {
		decision = "denied"
	}
	return fmt.Sprintf("%s requested %s on %s: %s", e.UserID, e.Permission, e.Route, decision)
}

func (e CheckEvent) Severity() Severity {
	if e.Allowed {
		return SeverityInfo
	}
	return SeverityNotice
}

func (e CheckEvent) Facility() int {
	return FacilityAuthPriv
}

func (e CheckEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"route":      e.Route,
			"permission": e.Permission,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "check",
			"result":    result(e.Allowed),
		},
	}
}
