package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeforge/internal/mocks"
	"codeforge/internal/models"
	"codeforge/internal/storage"
)

func setupAnalysisRouter(store *mocks.StorageMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewAnalysisHandler(store)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.POST("/projects/:project_id/analyze", handler.Analyze)
	return r
}

func TestAnalyzeReportsFileIssues(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupAnalysisRouter(store)

	store.On("GetFile", mock.Anything, 4).Return(models.File{
		ID:      4,
		Content: "var x = 1\nconsole.log(x)",
	}, nil).Once()

	body := bytes.NewBufferString(`{"file_id":4,"language":"javascript"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/analyze", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Issues []struct {
			Line int    `json:"line"`
			Type string `json:"type"`
		} `json:"issues"`
		Metrics struct {
			Lines int `json:"lines"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Issues, 2)
	require.Equal(t, 2, report.Metrics.Lines)
	store.AssertExpectations(t)
}

func TestAnalyzeFileNotFound(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupAnalysisRouter(store)

	store.On("GetFile", mock.Anything, 99).
		Return(models.File{}, storage.ErrFileNotFound).Once()

	body := bytes.NewBufferString(`{"file_id":99}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/analyze", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertExpectations(t)
}

func TestAnalyzeValidation(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupAnalysisRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/projects/3/analyze", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "GetFile")
}
