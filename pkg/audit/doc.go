// Package audit provides audit logging for convoyd operations.
//
// Security-relevant operations are written as RFC5424 syslog lines:
//
//   - Signup and signin attempts
//   - Per-route permission decisions
//   - Account activation and role assignment
//   - Role and permission catalog changes
//   - Changes to convoys, committees, volunteer applications and villages
//
// Events are also persisted to the audit_messages table of the database
// named by CONVOYD_AUDIT_DATABASE_URL when it is set.
//
// # Usage
//
//	audit.Log(audit.CheckEvent{
//	    UserID:     profile.SubjectID,
//	    Route:      "POST /api/convoys",
//	    Permission: "createConvoy",
//	    Allowed:    true,
//	})
//
// Set CONVOYD_AUDIT_ENABLED=false to disable audit output.
package audit
