package endpoints

import (
	"errors"
	"net/http"
	"strings"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description *string  `json:"description"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,uuid"`
}

type updateRoleRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,uuid"`
}

type rolePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required,dive,uuid"`
}

type createPermissionRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// RegisterRolesEndpoints registers the role and permission catalog endpoints.
// /roles/permissions is registered before /roles/{id} so it is not taken
// for a role id.
func RegisterRolesEndpoints(s *server.Server) {
	r := s.Router

	r.Handle("/roles/permissions", guarded(s, permission.PermissionViewPermissions, handleListPermissions(s))).Methods("GET")
	r.Handle("/roles/permissions", guarded(s, permission.PermissionCreatePermission, handleCreatePermission(s))).Methods("POST")

	r.Handle("/roles", guarded(s, permission.PermissionViewRoles, handleListRoles(s))).Methods("GET")
	r.Handle("/roles", guarded(s, permission.PermissionCreateRole, handleCreateRole(s))).Methods("POST")
	r.Handle("/roles/{id}", guarded(s, permission.PermissionUpdateRole, handleUpdateRole(s))).Methods("PUT")
	r.Handle("/roles/{id}", guarded(s, permission.PermissionDeleteRole, handleDeleteRole(s))).Methods("DELETE")
	r.Handle("/roles/{id}/permissions", guarded(s, permission.PermissionUpdateRole, handleSetRolePermissions(s))).Methods("PUT")
}

func roleEvent(r *http.Request, resource, id, operation string) audit.RoleEvent {
	return audit.RoleEvent{
		UserID:     callerID(r),
		ClientIP:   middleware.ClientIP(r),
		Resource:   resource,
		ResourceID: id,
		Operation:  operation,
	}
}

// respondWithStoreError maps store errors of role operations to responses
func respondWithStoreError(s *server.Server, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		if store.EntityOf(err) == "permission" {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Permission not found")
			return
		}
		respondWithError(w, http.StatusNotFound, "not_found", "Role not found")
	case errors.Is(err, store.ErrConflict):
		if store.EntityOf(err) == "permission" {
			respondWithError(w, http.StatusConflict, "conflict", "Permission with this name already exists")
			return
		}
		respondWithError(w, http.StatusConflict, "conflict", "Role with this name already exists")
	default:
		middleware.WriteError(w, r, s.Logger, err)
	}
}

// invalidateHolders drops the cached profiles of everyone holding the role.
// Role deletion needs no call since assigned roles can't be deleted.
func invalidateHolders(s *server.Server, r *http.Request, roleID string) {
	if !s.Loader.Caching() {
		return
	}
	holders, err := s.Roles.RoleHolders(r.Context(), roleID)
	if err != nil {
		s.Logger.WarnContext(r.Context(), "listing role holders failed", "role", roleID, "error", err)
		return
	}
	for _, id := range holders {
		if err := s.Loader.Invalidate(r.Context(), id); err != nil {
			s.Logger.WarnContext(r.Context(), "profile cache invalidation failed", "subject", id, "error", err)
		}
	}
}

func handleListRoles(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := s.Roles.ListRoles(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, roles)
	}
}

func handleCreateRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := s.Validator.Struct(req); err != nil {
			if req.Name == "" {
				respondWithError(w, http.StatusBadRequest, "invalid_request", "Role name is required")
				return
			}
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		event := roleEvent(r, "role", req.Name, "create")
		role, err := s.Roles.CreateRole(r.Context(), &model.Role{Name: req.Name, Description: req.Description}, req.Permissions)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(s, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Role created successfully",
			"role":    role,
		})
	}
}

func handleUpdateRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Role not found")
			return
		}

		var req updateRoleRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Name != nil {
			trimmed := strings.TrimSpace(*req.Name)
			req.Name = &trimmed
		}
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		update := store.RoleUpdate{Name: req.Name, Description: req.Description}
		if req.Permissions != nil {
			update.PermissionIDs = *req.Permissions
			if update.PermissionIDs == nil {
				update.PermissionIDs = []string{}
			}
		}

		event := roleEvent(r, "role", id, "update")
		role, err := s.Roles.UpdateRole(r.Context(), id, update)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(s, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)
		invalidateHolders(s, r, id)

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Role updated successfully",
			"role":    role,
		})
	}
}

func handleDeleteRole(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Role not found")
			return
		}

		event := roleEvent(r, "role", id, "delete")
		err := s.Roles.DeleteRole(r.Context(), id)
		if err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)

			var inUse *store.InUseError
			if errors.As(err, &inUse) {
				respondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
					"error": middleware.ErrorBody{
						Code:    "role_in_use",
						Message: "Cannot delete role that is assigned to users",
					},
					"count": inUse.Count,
				})
				return
			}
			respondWithStoreError(s, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Role deleted successfully"})
	}
}

func handleSetRolePermissions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Role not found")
			return
		}

		var req rolePermissionsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		event := roleEvent(r, "role", id, "update")
		if err := s.Roles.SetRolePermissions(r.Context(), id, req.Permissions); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(s, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)
		invalidateHolders(s, r, id)

		role, err := s.Roles.FindRole(r.Context(), id)
		if err != nil {
			respondWithStoreError(s, w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Role permissions updated successfully",
			"role":    role,
		})
	}
}

func handleListPermissions(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		permissions, err := s.Roles.ListPermissions(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, permissions)
	}
}

func handleCreatePermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPermissionRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Permission name is required")
			return
		}

		// Stored names must resolve in the catalog or no profile could use them
		perm, ok := permission.Parse(req.Name)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Unknown permission name")
			return
		}
		if req.Description == "" {
			req.Description = perm.Description()
		}

		event := roleEvent(r, "permission", req.Name, "create")
		p := &model.Permission{Name: req.Name, Description: req.Description}
		if err := s.Roles.CreatePermission(r.Context(), p); err != nil {
			event.ErrorMessage = err.Error()
			audit.Log(event)
			respondWithStoreError(s, w, r, err)
			return
		}
		event.Success = true
		audit.Log(event)

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":    "Permission created successfully",
			"permission": p,
		})
	}
}
