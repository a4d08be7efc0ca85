package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"codeforge/internal/ws"
)

func setupGitRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewGitHandler(ws.NewRouter(ws.NewRegistry()))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/projects/:project_id/git/:operation", handler.Execute)
	return r
}

func TestGitStatusWithoutBody(t *testing.T) {
	router := setupGitRouter()

	req := httptest.NewRequest(http.MethodPost, "/projects/3/git/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, "main", result["branch"])
}

func TestGitCommitPassesMessage(t *testing.T) {
	router := setupGitRouter()

	body := bytes.NewBufferString(`{"message":"fix cursors"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/git/commit", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, "fix cursors", result["message"])
	require.NotEmpty(t, result["hash"])
}

func TestGitInvalidProjectID(t *testing.T) {
	router := setupGitRouter()

	req := httptest.NewRequest(http.MethodPost, "/projects/abc/git/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
