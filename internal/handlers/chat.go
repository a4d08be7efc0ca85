package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/cache"
	"codeforge/internal/models"
	"codeforge/internal/storage"
)

// ChatHandler serves persisted project chat history. Live chat frames
// travel over the websocket; this is the durable record.
type ChatHandler struct {
	store storage.Storage
	cache *cache.ChatCache
}

// NewChatHandler builds a ChatHandler. The cache may be nil.
func NewChatHandler(store storage.Storage, chatCache *cache.ChatCache) *ChatHandler {
	return &ChatHandler{store: store, cache: chatCache}
}

// GetChatMessages returns the chat history for a project, cache-aside.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	if msgs, hit := h.cache.Get(c.Request.Context(), projectID); hit {
		c.JSON(http.StatusOK, gin.H{"messages": msgs})
		return
	}

	msgs, err := h.store.GetChatMessages(c.Request.Context(), projectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	h.cache.Set(c.Request.Context(), projectID, msgs)
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// PostChatMessage persists a chat message.
func (h *ChatHandler) PostChatMessage(c *gin.Context) {
	projectID, ok := paramID(c, "project_id")
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	msg, err := h.store.CreateChatMessage(c.Request.Context(), models.ChatMessage{
		ProjectID: projectID,
		UserID:    userID,
		Message:   req.Message,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	h.cache.Invalidate(c.Request.Context(), projectID)
	c.JSON(http.StatusCreated, msg)
}
