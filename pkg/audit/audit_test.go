package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AuthenticateEvent{
		Email:     "alice@example.org",
		SubjectID: "0b7c1f9e-6d43-4e43-9c3b-3b1d6f2f4a10",
		ClientIP:  "192.168.1.1",
		Operation: "signin",
		Success:   true,
	}

	logger.Log(event)

	output := buf.String()

	// <PRI> for authpriv.info is 10*8+6
	if !strings.HasPrefix(output, "<86>1 ") {
		t.Errorf("Expected PRI prefix <86>1, got %q", output)
	}
	if !strings.Contains(output, "convoyd") {
		t.Error("Expected app name 'convoyd' in output")
	}
	if !strings.Contains(output, " authn ") {
		t.Error("Expected message ID 'authn' in output")
	}
	if !strings.Contains(output, `email="alice@example.org"`) {
		t.Error("Expected email in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.HasSuffix(output, "alice@example.org completed signin\n") {
		t.Errorf("Expected success message at end of output, got %q", output)
	}
}

func TestStructuredDataOrdering(t *testing.T) {
	got := formatStructuredData(map[string]map[string]string{
		SDIDClient: {"ip": "10.0.0.1"},
		SDIDAction: {"result": "success", "operation": "check"},
	})
	want := `[action@32473 operation="check" result="success"][client@32473 ip="10.0.0.1"]`
	if got != want {
		t.Errorf("formatStructuredData() = %q, want %q", got, want)
	}
	if formatStructuredData(nil) != "" {
		t.Error("Expected empty structured data for nil map")
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   AuthenticateEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "successful signin",
			event: AuthenticateEvent{
				Email:   "alice@example.org",
				Success: true,
			},
			wantMsg: "alice@example.org completed signin",
			wantSev: SeverityInfo,
		},
		{
			name: "failed signin",
			event: AuthenticateEvent{
				Email:        "alice@example.org",
				Success:      false,
				ErrorMessage: "invalid credentials",
			},
			wantMsg: "failed signin: invalid credentials",
			wantSev: SeverityWarning,
		},
		{
			name: "signup",
			event: AuthenticateEvent{
				Email:     "bob@example.org",
				Operation: "signup",
				Success:   true,
			},
			wantMsg: "completed signup",
			wantSev: SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuthPriv)
			}
			if tt.event.MessageID() != "authn" {
				t.Errorf("MessageID() = %v, want 'authn'", tt.event.MessageID())
			}
		})
	}
}

func TestCheckEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      CheckEvent
		wantMsg    string
		wantResult string
	}{
		{
			name: "allowed",
			event: CheckEvent{
				UserID:     "u-1",
				Route:      "POST /api/convoys",
				Permission: "createConvoy",
				Allowed:    true,
			},
			wantMsg:    "u-1 requested createConvoy on POST /api/convoys: allowed",
			wantResult: "success",
		},
		{
			name: "denied",
			event: CheckEvent{
				UserID:     "u-2",
				Route:      "DELETE /api/roles/{id}",
				Permission: "deleteRole",
				Allowed:    false,
			},
			wantMsg:    "u-2 requested deleteRole on DELETE /api/roles/{id}: denied",
			wantResult: "failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			sd := tt.event.StructuredData()
			if sd[SDIDAction]["result"] != tt.wantResult {
				t.Errorf("StructuredData action.result = %v, want %v", sd[SDIDAction]["result"], tt.wantResult)
			}
			if sd[SDIDSubject]["permission"] != tt.event.Permission {
				t.Errorf("StructuredData subject.permission = %v, want %v", sd[SDIDSubject]["permission"], tt.event.Permission)
			}
		})
	}
}

func TestRoleEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   RoleEvent
		wantMsg string
	}{
		{
			name:    "create role",
			event:   RoleEvent{UserID: "admin", Resource: "role", ResourceID: "LOGISTICS", Operation: "create", Success: true},
			wantMsg: "admin created role LOGISTICS",
		},
		{
			name:    "update role",
			event:   RoleEvent{UserID: "admin", Resource: "role", ResourceID: "r-1", Operation: "update", Success: true},
			wantMsg: "admin updated role r-1",
		},
		{
			name:    "delete in use",
			event:   RoleEvent{UserID: "admin", Resource: "role", ResourceID: "r-1", Operation: "delete", ErrorMessage: "role in use"},
			wantMsg: "admin failed to delete role r-1: role in use",
		},
		{
			name:    "create permission",
			event:   RoleEvent{UserID: "admin", Resource: "permission", ResourceID: "manageVillages", Operation: "create", Success: true},
			wantMsg: "admin created permission manageVillages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.MessageID() != "role" {
				t.Errorf("MessageID() = %v, want 'role'", tt.event.MessageID())
			}
		})
	}
}

func TestResourceEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   ResourceEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "add participant",
			event:   ResourceEvent{UserID: "admin", Resource: "participant", ResourceID: "12", Operation: "add", Success: true},
			wantMsg: "admin added participant 12",
			wantSev: SeverityInfo,
		},
		{
			name:    "record village data",
			event:   ResourceEvent{UserID: "u-1", Resource: "village data", ResourceID: "v-1", Operation: "record", Success: true},
			wantMsg: "u-1 recorded village data v-1",
			wantSev: SeverityInfo,
		},
		{
			name:    "blocked volunteer failure",
			event:   ResourceEvent{UserID: "admin", Resource: "application", ResourceID: "u-2", Operation: "block", ErrorMessage: "application not found"},
			wantMsg: "admin failed to block application u-2: application not found",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.StructuredData()[SDIDSubject][tt.event.Resource] != tt.event.ResourceID {
				t.Errorf("expected %s in subject data", tt.event.Resource)
			}
		})
	}
}

func TestAccountEvents(t *testing.T) {
	activation := ActivationEvent{UserID: "admin", TargetID: "u-9", Success: true}
	if activation.Message() != "admin activated account u-9" {
		t.Errorf("Message() = %q", activation.Message())
	}
	if activation.Severity() != SeverityNotice {
		t.Errorf("Severity() = %v, want SeverityNotice", activation.Severity())
	}

	assignment := RoleAssignmentEvent{UserID: "admin", TargetID: "u-9", RoleID: "r-2", ErrorMessage: "role not found"}
	if assignment.Message() != "admin failed to assign role r-2 to u-9: role not found" {
		t.Errorf("Message() = %q", assignment.Message())
	}
	if assignment.StructuredData()[SDIDSubject]["role"] != "r-2" {
		t.Error("Expected role in structured data")
	}
}

func TestWhoamiEvent(t *testing.T) {
	event := WhoamiEvent{UserID: "u-1", ClientIP: "10.0.0.1"}
	if event.MessageID() != "identity-check" {
		t.Errorf("MessageID() = %v, want 'identity-check'", event.MessageID())
	}
	if event.Facility() != FacilityAuth {
		t.Errorf("Facility() = %v, want FacilityAuth", event.Facility())
	}
}

func TestAuditToggle(t *testing.T) {
	var buf bytes.Buffer
	original := DefaultLogger
	DefaultLogger = NewLogger()
	DefaultLogger.SetWriter(&buf)

	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
		DefaultLogger = original
	}()

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}
	Log(WhoamiEvent{UserID: "u-1"})
	if buf.Len() != 0 {
		t.Error("Expected no output while disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
	Log(WhoamiEvent{UserID: "u-1"})
	if !strings.Contains(buf.String(), "u-1 checked its identity") {
		t.Errorf("Expected whoami line, got %q", buf.String())
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
