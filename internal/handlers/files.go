package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/models"
	"codeforge/internal/protocol"
	"codeforge/internal/storage"
	"codeforge/internal/ws"
)

// FileHandler manages the project file tree. Mutations are fanned out to
// the project's collaboration room so open editors can refresh.
type FileHandler struct {
	store  storage.Storage
	router *ws.Router
}

// NewFileHandler builds a FileHandler.
func NewFileHandler(store storage.Storage, router *ws.Router) *FileHandler {
	return &FileHandler{store: store, router: router}
}

// ListFiles returns every file and folder in a project.
func (h *FileHandler) ListFiles(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	files, err := h.store.GetFilesByProjectID(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": files})
}

// CreateFile adds a file or folder and notifies the project room.
func (h *FileHandler) CreateFile(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Path     string `json:"path" binding:"required"`
		Content  string `json:"content"`
		Type     string `json:"type" binding:"required"`
		ParentID *int   `json:"parent_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.store.CreateFile(c.Request.Context(), models.File{
		Name:      req.Name,
		Path:      req.Path,
		Content:   req.Content,
		Type:      req.Type,
		ProjectID: projectID,
		ParentID:  req.ParentID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create file"})
		return
	}

	h.router.Notify(protocol.TypeFileCreated, projectID, file)
	c.JSON(http.StatusCreated, file)
}

// GetFile returns one file.
func (h *FileHandler) GetFile(c *gin.Context) {
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	file, err := h.store.GetFile(c.Request.Context(), fileID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrFileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "file not found"})
		return
	}

	c.JSON(http.StatusOK, file)
}

// UpdateFile applies a partial update and notifies the project room.
func (h *FileHandler) UpdateFile(c *gin.Context) {
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	var updates models.FileUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.store.UpdateFile(c.Request.Context(), fileID, updates)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrFileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to update file"})
		return
	}

	h.router.Notify(protocol.TypeFileChange, file.ProjectID, file)
	c.JSON(http.StatusOK, file)
}

// DeleteFile removes a file.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	fileID, ok := paramID(c, "file_id")
	if !ok {
		return
	}

	if err := h.store.DeleteFile(c.Request.Context(), fileID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrFileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "failed to delete file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BatchFiles executes a sequence of create/update/delete operations and
// notifies the project room once with the combined results.
func (h *FileHandler) BatchFiles(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Operations []struct {
			Type   string            `json:"type" binding:"required"`
			ID     int               `json:"id"`
			Data   models.File       `json:"data"`
			Update models.FileUpdate `json:"update"`
		} `json:"operations" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := make([]gin.H, 0, len(req.Operations))
	for _, op := range req.Operations {
		switch op.Type {
		case "create":
			op.Data.ProjectID = projectID
			file, err := h.store.CreateFile(c.Request.Context(), op.Data)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute batch operations"})
				return
			}
			results = append(results, gin.H{"type": "created", "file": file})
		case "update":
			file, err := h.store.UpdateFile(c.Request.Context(), op.ID, op.Update)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute batch operations"})
				return
			}
			results = append(results, gin.H{"type": "updated", "file": file})
		case "delete":
			if err := h.store.DeleteFile(c.Request.Context(), op.ID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to execute batch operations"})
				return
			}
			results = append(results, gin.H{"type": "deleted", "id": op.ID})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown batch operation: " + op.Type})
			return
		}
	}

	h.router.Notify(protocol.TypeFileBatch, projectID, results)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
