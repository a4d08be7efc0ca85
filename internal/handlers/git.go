package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/protocol"
	"codeforge/internal/terminal"
	"codeforge/internal/ws"
)

// GitHandler runs simulated git operations for a project and mirrors the
// result to the project's collaboration room.
type GitHandler struct {
	router *ws.Router
}

// NewGitHandler builds a GitHandler.
func NewGitHandler(router *ws.Router) *GitHandler {
	return &GitHandler{router: router}
}

// Execute simulates the named git operation and broadcasts its result.
// The request body is optional; commit and add read message and files
// from it when present.
func (h *GitHandler) Execute(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}
	operation := c.Param("operation")

	var req terminal.GitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result := terminal.Git(operation, req)

	h.router.Notify(protocol.TypeGitOperation, projectID, gin.H{
		"operation": operation,
		"result":    result,
	})

	c.JSON(http.StatusOK, result)
}
