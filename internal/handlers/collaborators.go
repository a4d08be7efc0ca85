package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/models"
	"codeforge/internal/storage"
)

// CollaboratorHandler manages project membership records.
type CollaboratorHandler struct {
	store storage.Storage
}

// NewCollaboratorHandler builds a CollaboratorHandler.
func NewCollaboratorHandler(store storage.Storage) *CollaboratorHandler {
	return &CollaboratorHandler{store: store}
}

// ListCollaborators returns a project's collaborators.
func (h *CollaboratorHandler) ListCollaborators(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	collabs, err := h.store.GetCollaboratorsByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load collaborators"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": collabs})
}

// AddCollaborator grants a user access to a project.
func (h *CollaboratorHandler) AddCollaborator(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		UserID int    `json:"user_id" binding:"required"`
		Role   string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collab, err := h.store.AddCollaborator(c.Request.Context(), models.Collaborator{
		ProjectID: projectID,
		UserID:    req.UserID,
		Role:      req.Role,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add collaborator"})
		return
	}

	c.JSON(http.StatusCreated, collab)
}

// RemoveCollaborator revokes a user's access to a project.
func (h *CollaboratorHandler) RemoveCollaborator(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	userID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	if err := h.store.RemoveCollaborator(c.Request.Context(), projectID, userID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrCollaboratorNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to remove collaborator"})
		return
	}

	c.Status(http.StatusNoContent)
}
