package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/testutil"
)

func TestUpdateUser(t *testing.T) {
	s := newTestServer(t)
	dept := testutil.CreateDepartment(t, s.db, "Support", "SUP")
	staff := testutil.CreateUser(t, s.db, models.User{IsStaff: true})
	member := testutil.CreateUser(t, s.db, models.User{FirstName: "Rae", Rank: "Junior"})
	other := testutil.CreateUser(t, s.db, models.User{})
	memberURL := fmt.Sprintf("/api/users/%d", member.ID)

	t.Run("self may rename", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(member), map[string]string{"first_name": " Raelynn "})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "Raelynn", body["first_name"])
		assert.Equal(t, "Junior", body["rank"])
	})

	t.Run("self may not change rank", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(member), map[string]string{"rank": "Lead"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("others may not edit", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(other), map[string]string{"first_name": "X"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("staff edits rank and department", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(staff), map[string]interface{}{
			"rank":          "Lead",
			"department_id": dept.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body map[string]interface{}
		decode(t, w, &body)
		assert.Equal(t, "Lead", body["rank"])
		require.IsType(t, map[string]interface{}{}, body["department"])
		assert.Equal(t, "SUP", body["department"].(map[string]interface{})["code"])
	})

	t.Run("unknown department", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(staff), map[string]interface{}{"department_id": 999})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank name", func(t *testing.T) {
		w := s.do(http.MethodPatch, memberURL, s.tokenFor(member), map[string]string{"last_name": "  "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		w := s.do(http.MethodPatch, "/api/users/4242", s.tokenFor(staff), map[string]string{"rank": "Lead"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("staff cannot deactivate themselves", func(t *testing.T) {
		w := s.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", staff.ID), s.tokenFor(staff), map[string]bool{"is_active": false})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeactivatedUserLosesAccess(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, models.User{IsStaff: true})
	member := testutil.CreateUser(t, s.db, models.User{})
	memberToken := s.tokenFor(member)

	w := s.do(http.MethodGet, "/api/users/me", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", member.ID), s.tokenFor(staff), map[string]bool{"is_active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodGet, "/api/users/me", memberToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d", member.ID), s.tokenFor(staff), nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "inactive users leave the directory")

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/users/%d", member.ID), s.tokenFor(staff), map[string]bool{"is_active": true})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/users/me", memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteUser(t *testing.T) {
	s := newTestServer(t)
	staff := testutil.CreateUser(t, s.db, models.User{IsStaff: true})
	member := testutil.CreateUser(t, s.db, models.User{})
	testutil.CreateTask(t, s.db, models.Task{AssigneeID: member.ID})
	testutil.CreateNotification(t, s.db, member.ID, false)
	memberURL := fmt.Sprintf("/api/users/%d", member.ID)

	w := s.do(http.MethodDelete, memberURL, s.tokenFor(member), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/users/%d", staff.ID), s.tokenFor(staff), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, memberURL, s.tokenFor(staff), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var users, tasks, notifications int64
	require.NoError(t, s.db.Model(&models.User{}).Where("id = ?", member.ID).Count(&users).Error)
	require.NoError(t, s.db.Model(&models.Task{}).Where("assignee_id = ?", member.ID).Count(&tasks).Error)
	require.NoError(t, s.db.Model(&models.Notification{}).Where("recipient_id = ?", member.ID).Count(&notifications).Error)
	assert.Zero(t, users)
	assert.Zero(t, tasks)
	assert.Zero(t, notifications)

	w = s.do(http.MethodDelete, memberURL, s.tokenFor(staff), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPageLinksIgnoreUntrustedForwardedProto(t *testing.T) {
	cfg := testutil.Config()
	cfg.TrustedProxies = []string{"10.0.0.1"}
	s := newTestServerWithConfig(t, cfg)

	var caller models.User
	for i := 0; i < 11; i++ {
		caller = testutil.CreateUser(t, s.db, models.User{})
	}
	token := s.tokenFor(caller)

	nextLink := func(remote string) string {
		req := httptest.NewRequest(http.MethodGet, "http://api.example.com/api/users", nil)
		req.RemoteAddr = remote
		req.Header.Set("X-Forwarded-Proto", "https")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var page userPage
		decode(t, w, &page)
		require.NotNil(t, page.Next)
		return *page.Next
	}

	assert.Equal(t, "http://api.example.com/api/users?page=2", nextLink("203.0.113.9:5555"))
	assert.Equal(t, "https://api.example.com/api/users?page=2", nextLink("10.0.0.1:5555"))
}
