package audit

import "fmt"

// ResourceEvent records a change to convoy operations data: convoys,
// committees, volunteer applications and villages.
type ResourceEvent struct {
	UserID       string
	ClientIP     string
	Resource     string
	ResourceID   string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e ResourceEvent) MessageID() string {
	return "resource"
}

var resourcePastTense = map[string]string{
	"create": "created",
	"update": "updated",
	"delete": "deleted",
	"add":    "added",
	"remove": "removed",
	"review": "reviewed",
	"block":  "blocked",
	"record": "recorded",
}

func (e ResourceEvent) Message() string {
	if e.Success {
		done, ok := resourcePastTense[e.Operation]
		if !ok {
			done = e.Operation
		}
		return fmt.Sprintf("%s %s %s %s", e.UserID, done, e.Resource, e.ResourceID)
	}
	return withError(fmt.Sprintf("%s failed to %s %s %s", e.UserID, e.Operation, e.Resource, e.ResourceID), e.ErrorMessage)
}

func (e ResourceEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ResourceEvent) Facility() int {
	return FacilityAuth
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
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
