package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"codeforge/internal/mocks"
	"codeforge/internal/models"
	"codeforge/internal/storage"
)

func setupProjectRouter(handler *ProjectHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", 1)
		c.Set("username", "demo")
		c.Next()
	})
	r.GET("/projects", handler.ListProjects)
	r.POST("/projects", handler.CreateProject)
	r.GET("/projects/:project_id", handler.GetProject)
	r.PUT("/projects/:project_id", handler.UpdateProject)
	r.DELETE("/projects/:project_id", handler.DeleteProject)
	return r
}

func TestListProjectsSuccess(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	store.On("GetProjectsByUserID", mock.Anything, 1).Return([]models.Project{{ID: 3, Name: "ide"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]models.Project
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp["projects"], 1)
	assert.Equal(t, "ide", resp["projects"][0].Name)
	store.AssertExpectations(t)
}

func TestCreateProjectScaffoldsTemplate(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	store.On("CreateProject", mock.Anything, mock.MatchedBy(func(p models.Project) bool {
		return p.Name == "ide" && p.Template == "nodejs" && p.UserID == 1
	})).Return(models.Project{ID: 7, Name: "ide", Template: "nodejs", UserID: 1}, nil).Once()
	// The nodejs template ships two files.
	store.On("CreateFile", mock.Anything, mock.AnythingOfType("models.File")).Return(models.File{ID: 1}, nil).Twice()

	body := bytes.NewBufferString(`{"name":"ide","template":"nodejs"}`)
	req := httptest.NewRequest(http.MethodPost, "/projects", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	store.AssertExpectations(t)
}

func TestCreateProjectValidation(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	req := httptest.NewRequest(http.MethodPost, "/projects", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "CreateProject")
}

func TestGetProjectNotFound(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	store.On("GetProject", mock.Anything, 42).Return(models.Project{}, storage.ErrProjectNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/projects/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	store.AssertExpectations(t)
}

func TestGetProjectBadID(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	req := httptest.NewRequest(http.MethodGet, "/projects/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProjectSuccess(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	store.On("UpdateProject", mock.Anything, 5, "renamed", "desc").
		Return(models.Project{ID: 5, Name: "renamed", Description: "desc"}, nil).Once()

	body := bytes.NewBufferString(`{"name":"renamed","description":"desc"}`)
	req := httptest.NewRequest(http.MethodPut, "/projects/5", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	store.AssertExpectations(t)
}

func TestDeleteProjectSuccess(t *testing.T) {
	store := new(mocks.StorageMock)
	router := setupProjectRouter(NewProjectHandler(store))

	store.On("DeleteProject", mock.Anything, 5).Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/projects/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	store.AssertExpectations(t)
}
