package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/convoyrelief/convoyd/pkg/authz"
	"github.com/convoyrelief/convoyd/pkg/token"
)

// ErrorBody is the JSON shape of every error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError classifies err and writes it as a JSON error response.
// System errors are logged with their cause and answered generically.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	e := authz.Classify(err)
	if e.Status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	w.Header().Set("Content-Type", "application/json")
	if e.Status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", challenge(err))
	}
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(map[string]ErrorBody{
		"error": {Code: e.Code, Message: e.Message},
	})
}

// challenge builds the WWW-Authenticate value of a 401 response. Rejected
// credentials carry the RFC 6750 invalid_token code.
func challenge(err error) string {
	const realm = `Bearer realm="convoyd"`
	switch {
	case token.IsExpired(err):
		return realm + `, error="invalid_token", error_description="The access token expired"`
	case errors.Is(err, authz.ErrInvalidToken):
		return realm + `, error="invalid_token"`
	default:
		return realm
	}
}

// ClientIP returns the host part of the request's remote address
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
