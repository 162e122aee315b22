package endpoints

import (
	"net/http"
	"time"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
)

// WhoamiResponse represents the response from the /whoami endpoint
type WhoamiResponse struct {
	ID          string                  `json:"id"`
	Username    string                  `json:"username"`
	Email       string                  `json:"email"`
	Roles       []string                `json:"roles"`
	SuperAdmin  bool                    `json:"superAdmin"`
	Permissions []permission.Permission `json:"permissions"`
	ExpiresAt   time.Time               `json:"expiresAt,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	s.Router.Handle("/whoami", s.Authenticator.Middleware(handleWhoami(s))).Methods("GET")
}

func handleWhoami(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := identity.Get(r.Context())
		if !ok {
			middleware.WriteError(w, r, s.Logger, authz.ErrAuthenticationRequired)
			return
		}

		audit.Log(audit.WhoamiEvent{UserID: profile.SubjectID, ClientIP: middleware.ClientIP(r)})

		response := WhoamiResponse{
			ID:          profile.SubjectID,
			Username:    profile.Username,
			Email:       profile.Email,
			Roles:       profile.RoleNames(),
			SuperAdmin:  profile.IsSuper(),
			Permissions: profile.Permissions(),
		}
		if claims, ok := middleware.ClaimsFrom(r.Context()); ok {
			response.ExpiresAt = claims.ExpiresAt
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}
