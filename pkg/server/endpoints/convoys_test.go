package endpoints

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/convoyrelief/convoyd/pkg/model"
	"github.com/convoyrelief/convoyd/pkg/server/store"
)

func TestListConvoys_AnyAuthenticatedUser(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := env.signedIn(t, user(guestID, true, role("GUEST")))
	env.convoys.On("ListConvoys", mock.Anything).Return([]model.Convoy{{ID: convoyID, Name: "Spring relief", Status: model.ConvoyPlanning}}, nil)

	w := env.do(t, http.MethodGet, "/convoys", nil, tok)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"name":"Spring relief"`)
}

func TestListConvoys_RequiresAuthentication(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(t, http.MethodGet, "/convoys", nil, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.convoys.AssertNotCalled(t, "ListConvoys", mock.Anything)
}

func TestGetConvoy(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST")))
		env.convoys.On("FindConvoy", mock.Anything, convoyID).Return(&model.Convoy{ID: convoyID, Name: "Spring relief"}, nil)

		w := env.do(t, http.MethodGet, "/convoys/"+convoyID, nil, tok)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, convoyID, decode(t, w)["id"])
	})

	t.Run("missing", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST")))
		env.convoys.On("FindConvoy", mock.Anything, convoyID).Return(nil, store.NotFound("convoy"))

		w := env.do(t, http.MethodGet, "/convoys/"+convoyID, nil, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Convoy not found", errorMessage(t, w))
	})

	t.Run("malformed id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST")))

		w := env.do(t, http.MethodGet, "/convoys/not-a-uuid", nil, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCreateConvoy(t *testing.T) {
	valid := map[string]string{
		"name":         "Spring relief",
		"goals":        "Deliver water filters",
		"requirements": "Two trucks",
		"startDate":    "2026-04-01",
		"endDate":      "2026-04-05T18:00:00Z",
		"status":       "PLANNING",
	}

	t.Run("creates", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "createConvoy")))
		env.convoys.On("CreateConvoy", mock.Anything, mock.MatchedBy(func(c *model.Convoy) bool {
			return c.Name == "Spring relief" &&
				c.Status == model.ConvoyPlanning &&
				c.StartDate.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) &&
				c.EndDate != nil && c.EndDate.Equal(time.Date(2026, 4, 5, 18, 0, 0, 0, time.UTC))
		})).Return(nil)

		w := env.do(t, http.MethodPost, "/convoys", valid, tok)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Convoy created successfully", decode(t, w)["message"])
	})

	t.Run("requires createConvoy", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST", "updateConvoy")))

		w := env.do(t, http.MethodPost, "/convoys", valid, tok)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "insufficient_permissions", errorCode(t, w))
		env.convoys.AssertNotCalled(t, "CreateConvoy", mock.Anything, mock.Anything)
	})

	t.Run("super role bypasses", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(rootID, true, role("SUPER_ADMIN")))
		env.convoys.On("CreateConvoy", mock.Anything, mock.Anything).Return(nil)

		w := env.do(t, http.MethodPost, "/convoys", valid, tok)

		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "createConvoy")))

		w := env.do(t, http.MethodPost, "/convoys", map[string]string{"name": "Spring relief"}, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Name, goals, requirements, start date, and status are required", errorMessage(t, w))
	})

	t.Run("invalid status", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "createConvoy")))
		body := map[string]string{}
		for k, v := range valid {
			body[k] = v
		}
		body["status"] = "DRIVING"

		w := env.do(t, http.MethodPost, "/convoys", body, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid status", errorMessage(t, w))
	})

	t.Run("end before start", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "createConvoy")))
		body := map[string]string{}
		for k, v := range valid {
			body[k] = v
		}
		body["endDate"] = "2026-03-01"

		w := env.do(t, http.MethodPost, "/convoys", body, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateConvoy(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "updateConvoy")))
		env.convoys.On("UpdateConvoy", mock.Anything, convoyID, mock.MatchedBy(func(u store.ConvoyUpdate) bool {
			return u.Status != nil && *u.Status == model.ConvoyInProgress && u.Name == nil && u.StartDate == nil
		})).Return(&model.Convoy{ID: convoyID, Status: model.ConvoyInProgress}, nil)

		w := env.do(t, http.MethodPut, "/convoys/"+convoyID, map[string]string{"status": "IN_PROGRESS"}, tok)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Convoy updated successfully", decode(t, w)["message"])
	})

	t.Run("unknown convoy", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "updateConvoy")))
		env.convoys.On("UpdateConvoy", mock.Anything, convoyID, mock.Anything).Return(nil, store.NotFound("convoy"))

		w := env.do(t, http.MethodPut, "/convoys/"+convoyID, map[string]string{"goals": "x"}, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires updateConvoy", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST", "createConvoy")))

		w := env.do(t, http.MethodPut, "/convoys/"+convoyID, map[string]string{"goals": "x"}, tok)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAddParticipant(t *testing.T) {
	body := map[string]string{"convoyId": convoyID, "userId": targetID, "committeeId": groupID, "role": "Driver"}

	t.Run("adds active participant", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))
		env.convoys.On("AddParticipant", mock.Anything, mock.MatchedBy(func(p *model.ConvoyParticipant) bool {
			return p.UserID == targetID && p.Role == "Driver" && p.Status == model.ParticipantActive
		})).Return(nil)

		w := env.do(t, http.MethodPost, "/convoys/participants", body, tok)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Participant added successfully", decode(t, w)["message"])
	})

	t.Run("names the missing record", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))
		env.convoys.On("AddParticipant", mock.Anything, mock.Anything).Return(store.NotFound("committee"))

		w := env.do(t, http.MethodPost, "/convoys/participants", body, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Committee not found", errorMessage(t, w))
	})

	t.Run("duplicate", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))
		env.convoys.On("AddParticipant", mock.Anything, mock.Anything).Return(store.Conflict("participant", ""))

		w := env.do(t, http.MethodPost, "/convoys/participants", body, tok)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Participant already exists", errorMessage(t, w))
	})

	t.Run("missing role", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))

		w := env.do(t, http.MethodPost, "/convoys/participants", map[string]string{"convoyId": convoyID, "userId": targetID, "committeeId": groupID}, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("requires manageConvoyParticipants", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(guestID, true, role("GUEST", "createConvoy")))

		w := env.do(t, http.MethodPost, "/convoys/participants", body, tok)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestParticipantStatus(t *testing.T) {
	t.Run("updates", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))
		env.convoys.On("SetParticipantStatus", mock.Anything, int64(7), model.ParticipantCanceled).
			Return(&model.ConvoyParticipant{ID: 7, Status: model.ParticipantCanceled}, nil)

		w := env.do(t, http.MethodPatch, "/convoys/participants/7/status", map[string]string{"status": "CANCELED"}, tok)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	t.Run("invalid status", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))

		w := env.do(t, http.MethodPatch, "/convoys/participants/7/status", map[string]string{"status": "GONE"}, tok)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Valid status is required", errorMessage(t, w))
	})

	t.Run("non numeric id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))

		w := env.do(t, http.MethodPatch, "/convoys/participants/seven/status", map[string]string{"status": "ACTIVE"}, tok)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRemoveParticipant(t *testing.T) {
	env := newTestEnv(t, nil)
	tok := env.signedIn(t, user(adminID, true, role("ADMIN", "manageConvoyParticipants")))
	env.convoys.On("RemoveParticipant", mock.Anything, int64(7)).Return(nil)
	env.convoys.On("RemoveParticipant", mock.Anything, int64(8)).Return(store.NotFound("participant"))

	w := env.do(t, http.MethodDelete, "/convoys/participants/7", nil, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Participant removed successfully", decode(t, w)["message"])

	w = env.do(t, http.MethodDelete, "/convoys/participants/8", nil, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Participant not found", errorMessage(t, w))
}
