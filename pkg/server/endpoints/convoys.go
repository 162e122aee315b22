package endpoints

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type convoyRequest struct {
	Name         *string `json:"name"`
	Goals        *string `json:"goals"`
	Requirements *string `json:"requirements"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Status       *string `json:"status"`
}

type addParticipantRequest struct {
	ConvoyID    string `json:"convoyId" validate:"required,uuid"`
	UserID      string `json:"userId" validate:"required,uuid"`
	CommitteeID string `json:"committeeId" validate:"required,uuid"`
	Role        string `json:"role" validate:"required,max=100"`
}

type participantStatusRequest struct {
	Status string `json:"status"`
}

// RegisterConvoyEndpoints registers the convoy and participant endpoints.
// Reads need only authentication.
func RegisterConvoyEndpoints(s *server.Server) {
	r := s.Router

	r.Handle("/convoys/participants", guarded(s, permission.PermissionManageConvoyParticipants, handleAddParticipant(s))).Methods("POST")
	r.Handle("/convoys/participants/{id}/status", guarded(s, permission.PermissionManageConvoyParticipants, handleParticipantStatus(s))).Methods("PATCH")
	r.Handle("/convoys/participants/{id}", guarded(s, permission.PermissionManageConvoyParticipants, handleRemoveParticipant(s))).Methods("DELETE")

	r.Handle("/convoys", authenticated(s, handleListConvoys(s))).Methods("GET")
	r.Handle("/convoys", guarded(s, permission.PermissionCreateConvoy, handleCreateConvoy(s))).Methods("POST")
	r.Handle("/convoys/{id}", authenticated(s, handleGetConvoy(s))).Methods("GET")
	r.Handle("/convoys/{id}", guarded(s, permission.PermissionUpdateConvoy, handleUpdateConvoy(s))).Methods("PUT")
}

func handleListConvoys(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convoys, err := s.Convoys.ListConvoys(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, convoys)
	}
}

func handleGetConvoy(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Convoy not found")
			return
		}
		convoy, err := s.Convoys.FindConvoy(r.Context(), id)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, convoy)
	}
}

// convoyUpdate converts a request into an update, reporting the first
// malformed field.
func (req convoyRequest) convoyUpdate() (store.ConvoyUpdate, string) {
	update := store.ConvoyUpdate{
		Name:         trimmed(req.Name),
		Goals:        req.Goals,
		Requirements: req.Requirements,
	}
	if req.Status != nil {
		status := model.ConvoyStatus(*req.Status)
		if !status.Valid() {
			return update, "Invalid status"
		}
		update.Status = &status
	}
	if req.StartDate != nil {
		start, ok := parseDate(*req.StartDate)
		if !ok {
			return update, "Invalid start date"
		}
		update.StartDate = &start
	}
	if req.EndDate != nil {
		end, ok := parseDate(*req.EndDate)
		if !ok {
			return update, "Invalid end date"
		}
		update.EndDate = &end
	}
	if update.StartDate != nil && update.EndDate != nil && update.EndDate.Before(*update.StartDate) {
		return update, "End date must not precede start date"
	}
	return update, ""
}

func handleCreateConvoy(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req convoyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		update, problem := req.convoyUpdate()
		if update.Name == nil || *update.Name == "" || update.Goals == nil || update.Requirements == nil ||
			req.StartDate == nil || req.Status == nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Name, goals, requirements, start date, and status are required")
			return
		}
		if problem != "" {
			respondWithError(w, http.StatusBadRequest, "invalid_request", problem)
			return
		}

		convoy := &model.Convoy{
			Name:         *update.Name,
			Goals:        *update.Goals,
			Requirements: *update.Requirements,
			StartDate:    *update.StartDate,
			EndDate:      update.EndDate,
			Status:       *update.Status,
		}
		err := s.Convoys.CreateConvoy(r.Context(), convoy)
		logResource(resourceEvent(r, "convoy", convoy.Name, "create"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Convoy already exists")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Convoy created successfully",
			"convoy":  convoy,
		})
	}
}

func handleUpdateConvoy(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Convoy not found")
			return
		}

		var req convoyRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		update, problem := req.convoyUpdate()
		if problem != "" {
			respondWithError(w, http.StatusBadRequest, "invalid_request", problem)
			return
		}
		if update.Name != nil && *update.Name == "" {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Convoy name must not be empty")
			return
		}

		convoy, err := s.Convoys.UpdateConvoy(r.Context(), id, update)
		logResource(resourceEvent(r, "convoy", id, "update"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Convoy already exists")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Convoy updated successfully",
			"convoy":  convoy,
		})
	}
}

func handleAddParticipant(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addParticipantRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.Role = strings.TrimSpace(req.Role)
		if err := s.Validator.Struct(req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
			return
		}

		participant := &model.ConvoyParticipant{
			ConvoyID:    req.ConvoyID,
			UserID:      req.UserID,
			CommitteeID: req.CommitteeID,
			Role:        req.Role,
			Status:      model.ParticipantActive,
		}
		err := s.Convoys.AddParticipant(r.Context(), participant)
		logResource(resourceEvent(r, "participant", req.UserID, "add"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Participant already exists")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":     "Participant added successfully",
			"participant": participant,
		})
	}
}

func handleParticipantStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathInt(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Participant not found")
			return
		}

		var req participantStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		status := model.ParticipantStatus(req.Status)
		if !status.Valid() {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Valid status is required")
			return
		}

		participant, err := s.Convoys.SetParticipantStatus(r.Context(), id, status)
		logResource(resourceEvent(r, "participant", strconv.FormatInt(id, 10), "update"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":     "Participant status updated successfully",
			"participant": participant,
		})
	}
}

func handleRemoveParticipant(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathInt(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Participant not found")
			return
		}

		err := s.Convoys.RemoveParticipant(r.Context(), id)
		logResource(resourceEvent(r, "participant", strconv.FormatInt(id, 10), "remove"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Participant removed successfully"})
	}
}
