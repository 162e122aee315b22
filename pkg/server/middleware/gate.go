package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/identity"
	"github.com/convoyrelief/convoyd/pkg/permission"
)

// Gate guards routes by permission. It must run after Authenticator.
type Gate struct {
	logger *slog.Logger
}

// NewGate creates a new Gate
func NewGate(logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{logger: logger}
}

// Require returns middleware that passes the request on only when the
// caller holds p
func (g *Gate) Require(p permission.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := identity.Get(r.Context())
			if !ok {
				WriteError(w, r, g.logger, authz.ErrAuthenticationRequired)
				return
			}

			err := authz.Evaluate(profile, p)
			audit.Log(audit.CheckEvent{
				UserID:     profile.SubjectID,
				ClientIP:   ClientIP(r),
				Route:      routeName(r),
				Permission: p.String(),
				Allowed:    err == nil,
			})
			if err != nil {
				WriteError(w, r, g.logger, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return r.Method + " " + tpl
		}
	}
	return r.Method + " " + r.URL.Path
}
