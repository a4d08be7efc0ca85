package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/analysis"
	"codeforge/internal/storage"
)

// AnalysisHandler runs the mock code analysis over a stored file.
type AnalysisHandler struct {
	store storage.Storage
}

// NewAnalysisHandler builds an AnalysisHandler.
func NewAnalysisHandler(store storage.Storage) *AnalysisHandler {
	return &AnalysisHandler{store: store}
}

// Analyze loads the file and returns issues and metrics for it.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if _, ok := paramID(c, "project_id"); !ok {
		return
	}

	var req struct {
		FileID   int    `json:"file_id" binding:"required"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := h.store.GetFile(c.Request.Context(), req.FileID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrFileNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "file not found"})
		return
	}

	c.JSON(http.StatusOK, analysis.Analyze(file.Content, req.Language))
}
