package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/models"
	"codeforge/internal/storage"
	"codeforge/internal/templates"
)

// ProjectHandler manages project CRUD and template scaffolding.
type ProjectHandler struct {
	store storage.Storage
}

// NewProjectHandler builds a ProjectHandler.
func NewProjectHandler(store storage.Storage) *ProjectHandler {
	return &ProjectHandler{store: store}
}

// ListProjects returns the projects owned by the authenticated user.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID := c.GetInt("userID")

	projects, err := h.store.GetProjectsByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// CreateProject creates a project and scaffolds its template files.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Template    string `json:"template"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	project, err := h.store.CreateProject(c.Request.Context(), models.Project{
		Name:        req.Name,
		Description: req.Description,
		Template:    req.Template,
		UserID:      userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	for _, file := range templates.Files(project.Template, project.ID) {
		if _, err := h.store.CreateFile(c.Request.Context(), file); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to scaffold template"})
			return
		}
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns one project.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	project, err := h.store.GetProject(c.Request.Context(), projectID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrProjectNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "project not found"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// UpdateProject renames a project or changes its description.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.store.UpdateProject(c.Request.Context(), projectID, req.Name, req.Description)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrProjectNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project and its dependent records.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	if err := h.store.DeleteProject(c.Request.Context(), projectID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrProjectNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to delete project"})
		return
	}

	c.Status(http.StatusNoContent)
}
