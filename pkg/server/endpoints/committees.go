package endpoints

import (
	"net/http"
	"strings"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type createCommitteeRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description *string  `json:"description"`
	MemberIDs   []string `json:"memberIds" validate:"omitempty,dive,uuid"`
}

type updateCommitteeRequest struct {
	Name        *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description"`
	MemberIDs   *[]string `json:"memberIds" validate:"omitempty,dive,uuid"`
}

type addMemberRequest struct {
	CommitteeID string `json:"committeeId" validate:"required,uuid"`
	UserID      string `json:"userId" validate:"required,uuid"`
}

const committeeConflict = "Committee with this name already exists"

// RegisterCommitteeEndpoints registers the committee and membership endpoints
func RegisterCommitteeEndpoints(s *server.Server) {
	r := s.Router

	r.Handle("/committees/members", guarded(s, permission.PermissionManageCommitteeMembers, handleAddMember(s))).Methods("POST")
	r.Handle("/committees/{committeeId}/members/{userId}", guarded(s, permission.PermissionManageCommitteeMembers, handleRemoveMember(s))).Methods("DELETE")

	r.Handle("/committees", authenticated(s, handleListCommittees(s))).Methods("GET")
	r.Handle("/committees", guarded(s, permission.PermissionCreateCommittee, handleCreateCommittee(s))).Methods("POST")
	r.Handle("/committees/{id}", authenticated(s, handleGetCommittee(s))).Methods("GET")
	r.Handle("/committees/{id}", guarded(s, permission.PermissionUpdateCommittee, handleUpdateCommittee(s))).Methods("PUT")
}

func handleListCommittees(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		committees, err := s.Committees.ListCommittees(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, committees)
	}
}

func handleGetCommittee(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Committee not found")
			return
		}
		committee, err := s.Committees.FindCommittee(r.Context(), id)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, committee)
	}
}

func handleCreateCommittee(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCommitteeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := s.Validator.Struct(req); err != nil {
			if req.Name == "" {
				respondWithError(w, http.StatusBadRequest, "invalid_request", "Committee name is required")
				return
			}
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		committee, err := s.Committees.CreateCommittee(r.Context(), &model.Committee{Name: req.Name, Description: req.Description}, req.MemberIDs)
		logResource(resourceEvent(r, "committee", req.Name, "create"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, committeeConflict)
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":   "Committee created successfully",
			"committee": committee,
		})
	}
}

func handleUpdateCommittee(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Committee not found")
			return
		}

		var req updateCommitteeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Name = trimmed(req.Name)
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		update := store.CommitteeUpdate{Name: req.Name, Description: req.Description}
		if req.MemberIDs != nil {
			update.MemberIDs = *req.MemberIDs
			if update.MemberIDs == nil {
				update.MemberIDs = []string{}
			}
		}

		committee, err := s.Committees.UpdateCommittee(r.Context(), id, update)
		logResource(resourceEvent(r, "committee", id, "update"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, committeeConflict)
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":   "Committee updated successfully",
			"committee": committee,
		})
	}
}

func handleAddMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addMemberRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Committee ID and User ID are required")
			return
		}

		member, err := s.Committees.AddMember(r.Context(), req.CommitteeID, req.UserID)
		logResource(resourceEvent(r, "committee member", req.UserID, "add"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "User is already a member of this committee")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Member added to committee successfully",
			"member":  member,
		})
	}
}

func handleRemoveMember(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		committeeID, ok := pathID(r, "committeeId")
		userID, userOK := pathID(r, "userId")
		if !ok || !userOK {
			respondWithError(w, http.StatusNotFound, "not_found", "Member not found in this committee")
			return
		}

		err := s.Committees.RemoveMember(r.Context(), committeeID, userID)
		logResource(resourceEvent(r, "committee member", userID, "remove"), err)
		if err != nil {
			if store.EntityOf(err) == "member" {
				respondWithError(w, http.StatusNotFound, "not_found", "Member not found in this committee")
				return
			}
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Member removed from committee successfully"})
	}
}
