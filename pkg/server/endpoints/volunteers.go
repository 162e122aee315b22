package endpoints

import (
	"net/http"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type createApplicationRequest struct {
	// UserID defaults to the caller
	UserID      string `json:"userId" validate:"omitempty,uuid"`
	ConvoyID    string `json:"convoyId" validate:"required,uuid"`
	CommitteeID string `json:"committeeId" validate:"required,uuid"`
}

type reviewApplicationRequest struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejectionReason"`
}

// RegisterVolunteerEndpoints registers the volunteer application endpoints.
// Any authenticated user may apply and list the applications of a user.
func RegisterVolunteerEndpoints(s *server.Server) {
	r := s.Router

	r.Handle("/volunteers", guarded(s, permission.PermissionViewApplications, handleListApplications(s))).Methods("GET")
	r.Handle("/volunteers", authenticated(s, handleCreateApplication(s))).Methods("POST")
	r.Handle("/volunteers/user/{userId}", authenticated(s, handleUserApplications(s))).Methods("GET")
	r.Handle("/volunteers/convoy/{convoyId}", guarded(s, permission.PermissionViewConvoyApplications, handleConvoyApplications(s))).Methods("GET")
	r.Handle("/volunteers/{userId}/{convoyId}/{committeeId}/status", guarded(s, permission.PermissionManageApplications, handleReviewApplication(s))).Methods("PATCH")
	r.Handle("/volunteers/{userId}/{convoyId}/{committeeId}/block", guarded(s, permission.PermissionBlockVolunteer, handleBlockVolunteer(s))).Methods("PATCH")
}

// applicationKey reads the key of an application from the path
func applicationKey(r *http.Request) (store.ApplicationKey, bool) {
	userID, userOK := pathID(r, "userId")
	convoyID, convoyOK := pathID(r, "convoyId")
	committeeID, committeeOK := pathID(r, "committeeId")
	if !userOK || !convoyOK || !committeeOK {
		return store.ApplicationKey{}, false
	}
	return store.ApplicationKey{UserID: userID, ConvoyID: convoyID, CommitteeID: committeeID}, true
}

func handleListApplications(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applications, err := s.Volunteers.ListApplications(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, applications)
	}
}

func handleUserApplications(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(r, "userId")
		if !ok {
			respondWithJSON(w, http.StatusOK, []model.VolunteerApplication{})
			return
		}
		applications, err := s.Volunteers.ListApplicationsByUser(r.Context(), userID)
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, applications)
	}
}

func handleConvoyApplications(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convoyID, ok := pathID(r, "convoyId")
		if !ok {
			respondWithJSON(w, http.StatusOK, []model.VolunteerApplication{})
			return
		}
		applications, err := s.Volunteers.ListApplicationsByConvoy(r.Context(), convoyID)
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, applications)
	}
}

func handleCreateApplication(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createApplicationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.UserID == "" {
			req.UserID = callerID(r)
		}
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "User ID, Convoy ID, and Committee ID are required")
			return
		}

		application := &model.VolunteerApplication{
			UserID:      req.UserID,
			ConvoyID:    req.ConvoyID,
			CommitteeID: req.CommitteeID,
		}
		err := s.Volunteers.CreateApplication(r.Context(), application)
		logResource(resourceEvent(r, "application", req.UserID, "create"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Application already exists")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":     "Application submitted successfully",
			"application": application,
		})
	}
}

func handleReviewApplication(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := applicationKey(r)
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Application not found")
			return
		}

		var req reviewApplicationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		status := model.ApplicationStatus(req.Status)
		if !status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Valid status is required")
			return
		}

		application, err := s.Volunteers.ReviewApplication(r.Context(), key, status, req.RejectionReason)
		logResource(resourceEvent(r, "application", key.UserID, "review"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":     "Application status updated successfully",
			"application": application,
		})
	}
}

func handleBlockVolunteer(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := applicationKey(r)
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Application not found")
			return
		}

		application, err := s.Volunteers.BlockVolunteer(r.Context(), key)
		logResource(resourceEvent(r, "application", key.UserID, "block"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":     "Volunteer blocked successfully",
			"application": application,
		})
	}
}
