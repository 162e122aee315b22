package endpoints

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/convoyrelief/convoyd/pkg/audit"
	"github.com/convoyrelief/convoyd/pkg/server"
	"github.com/convoyrelief/convoyd/pkg/server/middleware"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

// authenticated wraps h so that it runs for any authenticated caller
func authenticated(s *server.Server, h http.HandlerFunc) http.Handler {
	return s.Authenticator.Middleware(h)
}

// pathInt returns a positive integer path variable
func pathInt(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func resourceEvent(r *http.Request, resource, id, operation string) audit.ResourceEvent {
	return audit.ResourceEvent{
		UserID:     callerID(r),
		ClientIP:   middleware.ClientIP(r),
		Resource:   resource,
		ResourceID: id,
		Operation:  operation,
	}
}

// logResource records the outcome of a change
func logResource(event audit.ResourceEvent, err error) {
	if err != nil {
		event.ErrorMessage = err.Error()
	} else {
		event.Success = true
	}
	audit.Log(event)
}

// respondWithEntityError maps store errors to responses. Missing records are
// named by their entity, conflicts answer with the given message.
func respondWithEntityError(s *server.Server, w http.ResponseWriter, r *http.Request, err error, conflict string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "not_found", entityTitle(store.EntityOf(err))+" not found")
	case errors.Is(err, store.ErrConflict):
		respondWithError(w, http.StatusConflict, "conflict", conflict)
	default:
		middleware.WriteError(w, r, s.Logger, err)
	}
}

func entityTitle(entity string) string {
	if entity == "" {
		return "Record"
	}
	return strings.ToUpper(entity[:1]) + entity[1:]
}

// trimmed trims an optional string in place
func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
