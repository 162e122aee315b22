package endpoints

import (
	"errors"
	"net/http"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type changeRoleRequest struct {
	RoleID string `json:"roleId" validate:"required,uuid"`
}

// RegisterUserEndpoints registers account administration endpoints
func RegisterUserEndpoints(s *server.Server) {
	s.Router.Handle("/auth/users/{userId}/activate",
		guarded(s, permission.PermissionActivateUser, handleActivateUser(s))).Methods("PATCH")
	s.Router.Handle("/auth/users/{userId}/role",
		guarded(s, permission.PermissionChangeUserRole, handleChangeUserRole(s))).Methods("PATCH")
}

func callerID(r *http.Request) string {
	if p, ok := identity.Get(r.Context()); ok {
		return p.SubjectID
	}
	return ""
}

func handleActivateUser(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userId")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}

		event := audit.ActivationEvent{UserID: callerID(r), ClientIP: middleware.ClientIP(r), TargetID: userID}

		user, err := s.Subjects.ActivateSubject(r.Context(), userID)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "not_found", "User not found")
				return
			}
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		if err := s.Loader.Invalidate(r.Context(), userID); err != nil {
			s.Logger.WarnContext(r.Context(), "profile cache invalidation failed", "subject", userID, "error", err)
		}

		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "User activated successfully",
			"user":    newUserView(user),
		})
	}
}

func handleChangeUserRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userId")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}

		var req changeRoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Role ID is required")
			return
		}

		event := audit.RoleAssignmentEvent{
			UserID:   callerID(r),
			ClientIP: middleware.ClientIP(r),
			TargetID: userID,
			RoleID:   req.RoleID,
		}

		if err := s.Subjects.ReplaceSubjectRoles(r.Context(), userID, req.RoleID); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			if errors.Is(err, store.ErrNotFound) {
				if store.EntityOf(err) == "role" {
					respondWithError(w, http.StatusNotFound, "not_found", "Role not found")
					return
				}
				respondWithError(w, http.StatusNotFound, "not_found", "User not found")
				return
			}
			middleware.WriteError(w, r, s.Logger, err)
			return
		}

		if err := s.Loader.Invalidate(r.Context(), userID); err != nil {
			s.Logger.WarnContext(r.Context(), "profile cache invalidation failed", "subject", userID, "error", err)
		}

		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, map[string]string{"message": "User role updated successfully"})
	}
}
