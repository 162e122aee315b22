package endpoints

import (
	"net/http"

	"github.com/convoyrelief/convoyd/pkg/permission"
	"github.com/convoyrelief/convoyd/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterUserEndpoints(srv)
	RegisterRolesEndpoints(srv)
	RegisterConvoyEndpoints(srv)
	RegisterCommitteeEndpoints(srv)
	RegisterVolunteerEndpoints(srv)
	RegisterVillageEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
}

// guarded wraps h so that it runs only for authenticated callers holding p
func guarded(s *server.Server, p permission.Permission, h http.HandlerFunc) http.Handler {
	return s.Authenticator.Middleware(s.Gate.Require(p)(h))
}
