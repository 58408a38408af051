package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/personnel-api/config"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/router"
	"github.com/yeremiapane/personnel-api/testutil"
	"github.com/yeremiapane/personnel-api/utils"
	"gorm.io/gorm"
)

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	tokens *utils.TokenIssuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithConfig(t, testutil.Config())
}

func newTestServerWithConfig(t *testing.T, cfg *config.Config) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	return &testServer{
		t:      t,
		db:     db,
		router: router.SetupRouter(db, cfg),
		tokens: utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
	}
}

func (s *testServer) tokenFor(u models.User) string {
	s.t.Helper()
	token, err := s.tokens.GenerateToken(u.ID, u.IsStaff)
	require.NoError(s.t, err)
	return token
}

// do sends a request and returns the recorder. body, when non-nil, is
// encoded as JSON.
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
