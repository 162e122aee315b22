package endpoints

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jackc/pgtype"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

type villageRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type recordVillageDataRequest struct {
	VillageID string `json:"villageId" validate:"required,uuid"`
	// UserID defaults to the caller
	UserID string          `json:"userId" validate:"omitempty,uuid"`
	Data   json.RawMessage `json:"data"`
}

type updateVillageDataRequest struct {
	Data json.RawMessage `json:"data"`
}

// RegisterVillageEndpoints registers the village and village data endpoints.
// Reads need only authentication.
func RegisterVillageEndpoints(s *server.Server) {
	r := s.Router

	r.Handle("/villages/data", guarded(s, permission.PermissionRecordVillageData, handleRecordVillageData(s))).Methods("POST")
	r.Handle("/villages/data/{id}", authenticated(s, handleGetVillageData(s))).Methods("GET")
	r.Handle("/villages/data/{id}", guarded(s, permission.PermissionUpdateVillageData, handleUpdateVillageData(s))).Methods("PUT")

	r.Handle("/villages", authenticated(s, handleListVillages(s))).Methods("GET")
	r.Handle("/villages", guarded(s, permission.PermissionManageVillages, handleCreateVillage(s))).Methods("POST")
	r.Handle("/villages/{id}", authenticated(s, handleGetVillage(s))).Methods("GET")
	r.Handle("/villages/{id}", guarded(s, permission.PermissionManageVillages, handleUpdateVillage(s))).Methods("PUT")
}

// document wraps a JSON value for storage. Missing and null values are
// rejected.
func document(raw json.RawMessage) (pgtype.JSONB, bool) {
	trimmedRaw := bytes.TrimSpace(raw)
	if len(trimmedRaw) == 0 || bytes.Equal(trimmedRaw, []byte("null")) {
		return pgtype.JSONB{}, false
	}
	return pgtype.JSONB{Bytes: trimmedRaw, Status: pgtype.Present}, true
}

func handleListVillages(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		villages, err := s.Villages.ListVillages(r.Context())
		if err != nil {
			middleware.WriteError(w, r, s.Logger, err)
			return
		}
		respondWithJSON(w, http.StatusOK, villages)
	}
}

func handleGetVillage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Village not found")
			return
		}
		village, err := s.Villages.FindVillage(r.Context(), id)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, village)
	}
}

func handleCreateVillage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req villageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		name, location := trimmed(req.Name), trimmed(req.Location)
		if name == nil || *name == "" || location == nil || *location == "" {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Name and location are required")
			return
		}

		village := &model.Village{Name: *name, Location: *location}
		err := s.Villages.CreateVillage(r.Context(), village)
		logResource(resourceEvent(r, "village", village.Name, "create"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Village already exists")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "Village created successfully",
			"village": village,
		})
	}
}

func handleUpdateVillage(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Village not found")
			return
		}

		var req villageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		update := store.VillageUpdate{Name: trimmed(req.Name), Location: trimmed(req.Location)}
		if (update.Name != nil && *update.Name == "") || (update.Location != nil && *update.Location == "") {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Name and location must not be empty")
			return
		}

		village, err := s.Villages.UpdateVillage(r.Context(), id, update)
		logResource(resourceEvent(r, "village", id, "update"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Village already exists")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Village updated successfully",
			"village": village,
		})
	}
}

func handleRecordVillageData(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordVillageDataRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" {
			req.UserID = callerID(r)
		}
		data, hasData := document(req.Data)
		if err := s.Validator.Struct(req); err != nil || !hasData {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Village ID, User ID, and data are required")
			return
		}

		record := &model.VillageData{VillageID: req.VillageID, UserID: req.UserID, Data: data}
		err := s.Villages.RecordVillageData(r.Context(), record)
		logResource(resourceEvent(r, "village data", req.VillageID, "record"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "Village data already exists")
			return
		}

		respondWithJSON(w, http.StatusCreated, map[string]interface{}{
			"message":     "Village data recorded successfully",
			"villageData": record,
		})
	}
}

func handleGetVillageData(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Village data not found")
			return
		}
		record, err := s.Villages.FindVillageData(r.Context(), id)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}
		respondWithJSON(w, http.StatusOK, record)
	}
}

func handleUpdateVillageData(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			respondWithError(w, http.StatusNotFound, "not_found", "Village data not found")
			return
		}

		var req updateVillageDataRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		data, hasData := document(req.Data)
		if !hasData {
			respondWithError(w, http.StatusBadRequest, "invalid_request", "Data is required")
			return
		}

		record, err := s.Villages.UpdateVillageData(r.Context(), id, data)
		logResource(resourceEvent(r, "village data", id, "update"), err)
		if err != nil {
			respondWithEntityError(s, w, r, err, "")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"message":     "Village data updated successfully",
			"villageData": record,
		})
	}
}
