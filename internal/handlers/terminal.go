package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"codeforge/internal/protocol"
	"codeforge/internal/terminal"
	"codeforge/internal/ws"
)

// TerminalHandler runs simulated terminal commands for a project and
// mirrors the output to the project's collaboration room.
type TerminalHandler struct {
	router *ws.Router
}

// NewTerminalHandler builds a TerminalHandler.
func NewTerminalHandler(router *ws.Router) *TerminalHandler {
	return &TerminalHandler{router: router}
}

// Execute simulates a command and broadcasts its output.
func (h *TerminalHandler) Execute(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output := terminal.Simulate(req.Command)

	h.router.Notify(protocol.TypeTerminalOutput, projectID, gin.H{
		"command":   req.Command,
		"output":    output,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	c.JSON(http.StatusOK, gin.H{"output": output})
}
