package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

func respondWithError(w http.ResponseWriter, code int, errCode, message string) {
	respondWithJSON(w, code, map[string]interface{}{"error": middleware.ErrorBody{Code: errCode, Message: message}})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Request body must be valid JSON")
		return false
	}
	return true
}

// validationMessage lists the offending fields of a validator error
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "Invalid request"
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields = append(fields, fieldErr.Field())
	}
	sort.Strings(fields)
	return fmt.Sprintf("Missing or invalid fields: %s", strings.Join(fields, ", "))
}

// pathID returns a UUID path variable, or false when it is not one
func pathID(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// userView is the public shape of a user
type userView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	IsActive    bool      `json:"isActive"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newUserView(u *model.User) userView {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return userView{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		IsActive:    u.IsActive,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
	}
}
