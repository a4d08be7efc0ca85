package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeforge/internal/mocks"
	"codeforge/internal/models"
	"codeforge/internal/storage"
	"codeforge/internal/ws"
)

func setupFileRouter(store *mocks.StorageMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewFileHandler(store, ws.NewRouter(ws.NewRegistry()))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Next()
	})
	r.GET("/projects/:project_id/files", handler.ListFiles)
	r.POST("/projects/:project_id/files", handler.CreateFile)
	r.POST("/projects/:project_id/files/batch", handler.BatchFiles)
	r.GET("/files/:file_id", handler.GetFile)
	r.PUT("/files/:file_id", handler.UpdateFile)
	r.DELETE("/files/:file_id", handler.DeleteFile)
	return r
}

func TestCreateFileSuccess(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupFileRouter(store)

	store.On("CreateFile", mock.Anything, mock.MatchedBy(func(f models.File) bool {
		return f.ProjectID == 3 && f.Path == "src/a.js" && f.Type == "file"
	})).Return(models.File{ID: 1, ProjectID: 3, Path: "src/a.js"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"a.js","path":"src/a.js","type":"file"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/files", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	store.AssertExpectations(t)
}

func TestCreateFileValidation(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupFileRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/projects/3/files", bytes.NewBufferString(`{"name":"a.js"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "CreateFile")
}

func TestUpdateFileNotFound(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupFileRouter(store)

	store.On("UpdateFile", mock.Anything, 9, mock.AnythingOfType("models.FileUpdate")).
		Return(models.File{}, storage.ErrFileNotFound).Once()

	req := httptest.NewRequest(http.MethodPut, "/files/9", bytes.NewBufferString(`{"content":"x"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertExpectations(t)
}

func TestBatchFilesMixedOperations(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupFileRouter(store)

	store.On("CreateFile", mock.Anything, mock.MatchedBy(func(f models.File) bool {
		return f.ProjectID == 3 && f.Name == "new.js"
	})).Return(models.File{ID: 10, ProjectID: 3, Name: "new.js"}, nil).Once()
	store.On("UpdateFile", mock.Anything, 4, mock.AnythingOfType("models.FileUpdate")).
		Return(models.File{ID: 4, ProjectID: 3}, nil).Once()
	store.On("DeleteFile", mock.Anything, 5).Return(nil).Once()

	body := bytes.NewBufferString(`{"operations":[
		{"type":"create","data":{"name":"new.js","path":"new.js","type":"file"}},
		{"type":"update","id":4,"update":{"content":"x"}},
		{"type":"delete","id":5}
	]}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/files/batch", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestBatchFilesUnknownOperation(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupFileRouter(store)

	body := bytes.NewBufferString(`{"operations":[{"type":"rename","id":4}]}`)
	req := httptest.NewRequest(http.MethodPost, "/projects/3/files/batch", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
