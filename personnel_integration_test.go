package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/router"
	"github.com/yeremiapane/personnel-api/testutil"
	"gorm.io/gorm"
)

// TestEndToEndIntegration walks the main flow:
// 1. register and log in
// 2. read the directory and the caller's profile
// 3. look at task statistics for seeded tasks
// 4. a staff member notifies the user, who then clears their notifications
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	r := router.SetupRouter(db, testutil.Config())

	dept := testutil.CreateDepartment(t, db, "Platform", "PLT")
	staff := testutil.CreateUser(t, db, models.User{IsStaff: true, FirstName: "Sam"})

	userID := registerTest(t, r, dept.ID)
	token := loginTest(t, r, "jordan.lee@example.com", "integration-pass")
	staffToken := loginTest(t, r, staff.Email, testutil.DefaultPassword)

	seedTasks(t, db, userID)

	w := request(t, r, http.MethodGet, "/api/users?department="+fmt.Sprint(dept.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count   int64                    `json:"count"`
		Results []map[string]interface{} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.EqualValues(t, 1, page.Count)

	w = request(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d/tasks_statistics", userID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 5, stats["total_tasks"])
	assert.EqualValues(t, 2, stats["completed_tasks"])
	assert.EqualValues(t, 40.0, stats["completion_rate"])

	for i := 0; i < 2; i++ {
		w = request(t, r, http.MethodPost, "/api/notifications", staffToken, map[string]interface{}{
			"recipient_id": userID,
			"title":        fmt.Sprintf("Reminder %d", i+1),
			"message":      "Update your task board before standup.",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = request(t, r, http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.JSONEq(t, `{"count":2}`, w.Body.String())

	w = request(t, r, http.MethodPost, "/api/notifications/mark_all_read", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(t, r, http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.JSONEq(t, `{"count":0}`, w.Body.String())
}

func request(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerTest(t *testing.T, r *gin.Engine, departmentID uint) uint {
	w := request(t, r, http.MethodPost, "/register", "", map[string]interface{}{
		"employee_id":   "INT-01",
		"first_name":    "Jordan",
		"last_name":     "Lee",
		"email":         "jordan.lee@example.com",
		"password":      "integration-pass",
		"department_id": departmentID,
		"rank":          "Engineer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("registerTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data.ID
}

func loginTest(t *testing.T, r *gin.Engine, email, password string) string {
	w := request(t, r, http.MethodPost, "/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("loginTest fail: code=%d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Status)
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func seedTasks(t *testing.T, db *gorm.DB, userID uint) {
	statuses := []models.TaskStatus{
		models.TaskStatusDone,
		models.TaskStatusDone,
		models.TaskStatusInProgress,
		models.TaskStatusTodo,
		models.TaskStatusReview,
	}
	for _, status := range statuses {
		testutil.CreateTask(t, db, models.Task{AssigneeID: userID, Status: status})
	}
}
