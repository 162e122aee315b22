package endpoints

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/convoyrelief/convoyd/pkg/server/store"
)

func TestActivateUser(t *testing.T) {
	admin := user(adminID, true, role("ADMIN", "activateUser", "changeUserRole"))

	t.Run("activates", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, admin)
		env.subjects.On("ActivateSubject", mock.Anything, targetID).Return(user(targetID, true, role("GUEST")), nil)

		w := env.do(t, http.MethodPatch, "/auth/users/"+targetID+"/activate", nil, tok)

		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, "User activated successfully", body["message"])
		assert.Equal(t, true, body["user"].(map[string]interface{})["isActive"])
	})

	t.Run("unknown user", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, admin)
		env.subjects.On("ActivateSubject", mock.Anything, targetID).Return(nil, store.NotFound("user"))

		w := env.do(t, http.MethodPatch, "/auth/users/"+targetID+"/activate", nil, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", errorMessage(t, w))
	})

	t.Run("malformed id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, admin)

		w := env.do(t, http.MethodPatch, "/auth/users/not-a-uuid/activate", nil, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env.subjects.AssertNotCalled(t, "ActivateSubject", mock.Anything, mock.Anything)
	})

	t.Run("caller without activateUser", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST", "viewRoles")))

		w := env.do(t, http.MethodPatch, "/auth/users/"+targetID+"/activate", nil, tok)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "insufficient_permissions", errorCode(t, w))
		env.subjects.AssertNotCalled(t, "ActivateSubject", mock.Anything, mock.Anything)
	})

	t.Run("no credential", func(t *testing.T) {
		env := newTestEnv(t, nil)
		w := env.do(t, http.MethodPatch, "/auth/users/"+targetID+"/activate", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "authentication_required", errorCode(t, w))
	})
}

func TestChangeUserRole(t *testing.T) {
	admin := user(adminID, true, role("ADMIN", "changeUserRole"))

	tests := []struct {
		name        string
		body        interface{}
		replaceErr  error
		expectCall  bool
		wantStatus  int
		wantMessage string
	}{
		{"replaces the role", map[string]string{"roleId": roleID}, nil, true, http.StatusOK, ""},
		{"missing role id", map[string]string{}, nil, false, http.StatusBadRequest, "Role ID is required"},
		{"unknown role", map[string]string{"roleId": roleID}, store.NotFound("role"), true, http.StatusNotFound, "Role not found"},
		{"unknown user", map[string]string{"roleId": roleID}, store.NotFound("user"), true, http.StatusNotFound, "User not found"},
		{"store fault", map[string]string{"roleId": roleID}, errors.New("deadlock detected"), true, http.StatusInternalServerError, "Authorization error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			tok := env.signedIn(t, admin)
			if tt.expectCall {
				env.subjects.On("ReplaceSubjectRoles", mock.Anything, targetID, roleID).Return(tt.replaceErr)
			}

			w := env.do(t, http.MethodPatch, "/auth/users/"+targetID+"/role", tt.body, tok)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, errorMessage(t, w))
			} else {
				assert.Equal(t, "User role updated successfully", decode(t, w)["message"])
			}
			env.subjects.AssertExpectations(t)
		})
	}
}
