package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"codeforge/internal/models"
	"codeforge/internal/storage"
)

// UserHandler manages user accounts.
type UserHandler struct {
	store storage.Storage
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(store storage.Storage) *UserHandler {
	return &UserHandler{store: store}
}

// CreateUser registers a new user.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.GetUserByUsername(c.Request.Context(), req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), models.User{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetCurrentUser returns the authenticated user's record.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetInt("userID")

	user, err := h.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, storage.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
